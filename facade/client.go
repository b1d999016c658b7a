// File: facade/client.go
// Package facade
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client is the protocol façade that couples exactly one session.Session to
// one expirator keyed by sequence number, whose stored value is the request
// body that was sent — not a placeholder. SendRequest arms the tracker with
// a caller-supplied per-call timeout; a matching stream_resp disarms it and
// hands the stored request body alongside the response body to onResponse;
// an unanswered one fires onTimeout with (seq, requestBody) instead of a
// bare sequence number. Session itself has no opinion on any of this — see
// session/session.go's doc comment.

package facade

import (
	"net"
	"time"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/expirator"
	"github.com/momentics/hioload-ws/session"
	"github.com/momentics/hioload-ws/wire"
)

// ResponseHandler is invoked when a stream_resp answers a request this
// Client sent, given both the request body it answers and the response
// body that came back.
type ResponseHandler func(seq uint32, requestBody, responseBody []byte, ok bool)

// TimeoutHandler is invoked when a request sent via Client.SendRequest
// receives no stream_resp within its timeout, given the request body that
// went unanswered.
type TimeoutHandler func(seq uint32, requestBody []byte)

// Client wraps one session.Session, installing itself as the session's
// Handler so it can intercept OnStreamResponse/OnClosed to drive the
// outstanding-request table; every other callback passes through to base
// unchanged. Bound to api.Expirator rather than a concrete implementation,
// so any of heap/wheel/lock-free can back it interchangeably.
type Client struct {
	base session.Handler

	sess    *session.Session
	pending api.Expirator[uint32, []byte]

	onResponse ResponseHandler
	onTimeout  TimeoutHandler
}

// NewClient constructs a Client over conn, itself installed as the
// session's Handler. base receives every callback Client doesn't intercept
// (OnBindRequest, OnBindResponse, OnStreamRequest, OnProtocolError); it may
// be nil. onResponse/onTimeout may also be nil if the caller doesn't care.
func NewClient(conn net.Conn, cfg session.Config, pool api.BufferPool, executor session.Executor, base session.Handler, onResponse ResponseHandler, onTimeout TimeoutHandler) *Client {
	c := &Client{base: base, onResponse: onResponse, onTimeout: onTimeout}
	c.pending = expirator.NewHeap[uint32, []byte](func(seq uint32, body []byte) {
		if c.onTimeout != nil {
			c.onTimeout(seq, body)
		}
	}, nil)
	c.sess = session.NewSession(conn, cfg, pool, c, executor)
	return c
}

// Session returns the underlying session.Session this Client drives.
func (c *Client) Session() *session.Session { return c.sess }

// Start begins the session's read loop. Call once.
func (c *Client) Start() { c.sess.Start() }

// SendRequest serializes body as a stream_req and arms a per-call timeout
// against the stored body, returning its sequence number.
func (c *Client) SendRequest(body []byte, timeout time.Duration) (uint32, error) {
	seq, err := c.sess.SendRequest(body)
	if err != nil {
		return 0, err
	}
	c.pending.Add(seq, timeout, body)
	return seq, nil
}

// Close tears the underlying session down, flushing any outstanding
// requests as timeouts via OnClosed.
func (c *Client) Close(reason string) { c.sess.Close(reason) }

// Unbind begins the session's graceful unbind handshake.
func (c *Client) Unbind() error { return c.sess.Unbind() }

func (c *Client) OnBindRequest(s *session.Session, req wire.BindRequest, seq uint32) {
	if c.base != nil {
		c.base.OnBindRequest(s, req, seq)
	}
}

func (c *Client) OnBindResponse(s *session.Session, resp wire.BindResponse, seq uint32, status wire.CommandStatus) {
	if c.base != nil {
		c.base.OnBindResponse(s, resp, seq, status)
	}
}

func (c *Client) OnStreamRequest(s *session.Session, req wire.StreamRequest, seq uint32) {
	if c.base != nil {
		c.base.OnStreamRequest(s, req, seq)
	}
}

// OnStreamResponse removes seq from the outstanding-request table and
// hands the stored request body plus this response to onResponse. A
// stream_resp whose seq isn't tracked here (already timed out, or never
// sent through SendRequest) falls through to base instead of being
// silently dropped.
func (c *Client) OnStreamResponse(s *session.Session, resp wire.StreamResponse, seq uint32, status wire.CommandStatus) {
	body, ok := c.pending.GetInfo(seq)
	if !ok {
		if c.base != nil {
			c.base.OnStreamResponse(s, resp, seq, status)
		}
		return
	}
	c.pending.Remove(seq)
	if c.onResponse != nil {
		c.onResponse(seq, body, resp.MessageBody, status == wire.StatusOK)
	}
}

// OnClosed flushes every outstanding request as a timeout before
// forwarding to base, so a caller never has a SendRequest silently
// swallowed by the connection dropping.
func (c *Client) OnClosed(s *session.Session, reason string, wasOpen bool) {
	c.pending.ExpireAll()
	if c.base != nil {
		c.base.OnClosed(s, reason, wasOpen)
	}
}

func (c *Client) OnProtocolError(s *session.Session, err error) {
	if c.base != nil {
		c.base.OnProtocolError(s, err)
	}
}

var _ session.Handler = (*Client)(nil)
