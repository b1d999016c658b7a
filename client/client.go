// File: client/client.go
// Package client provides a reconnecting client for the bind/stream session
// protocol.
// Author: momentics <momentics.com>
// License: Apache-2.0
//
// This client implements:
// - TCP dial followed by a bind_req/bind_resp handshake (session.Session)
// - Automatic reconnect with linear backoff (controlled by ReconnectMax)
// - Optional heartbeat (enquire_link) on an interval
// - Lifecycle callbacks: OnConnect, OnClose, OnError
// - Idempotent Close and immediate OnConnect for handlers registered after connection

package client

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/session"
)

// ConnEventHandler defines lifecycle callback signatures.
type ConnEventHandler interface {
	OnConnect()
	OnClose()
	OnError(err error)
}

// ClientConfig holds all configurable parameters for the session client.
type ClientConfig struct {
	Addr              string // host:port to dial
	SystemID          string // system id presented in bind_req
	ReconnectMax      int    // max dial attempts in total, including the first (0 or 1 = no retries)
	HeartbeatInterval time.Duration
	Session           session.Config
}

// Client is a reconnecting driver of one session.Session, plus the
// bind-handshake and reconnect bookkeeping session.Session itself doesn't
// know about.
type Client struct {
	cfg     ClientConfig
	bufPool api.BufferPool
	handler session.Handler

	mu   sync.Mutex
	sess *session.Session

	handlers  []ConnEventHandler
	connected atomic.Bool
	closed    atomic.Bool
	closeCh   chan struct{}
	attempts  int
}

// NewClient constructs and connects a new Client, blocking until the
// initial dial succeeds (or every attempt fails) and bind_req has been
// queued on the new session. It does not wait for bind_resp; the response
// reaches handler.OnBindResponse. handler receives the session's traffic;
// Client itself only drives bind/reconnect. If
// pool is nil, the client falls back to ClientBufferPool at the NUMA node
// named in cfg.Session.
func NewClient(cfg ClientConfig, pool api.BufferPool, handler session.Handler) (*Client, error) {
	if pool == nil {
		pool = ClientBufferPool(cfg.Session.NUMANode)
	}
	c := &Client{
		cfg:     cfg,
		bufPool: pool,
		handler: handler,
		closeCh: make(chan struct{}),
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// RegisterHandler adds a lifecycle event handler. If already connected,
// invokes OnConnect immediately.
func (c *Client) RegisterHandler(h ConnEventHandler) {
	c.mu.Lock()
	c.handlers = append(c.handlers, h)
	already := c.connected.Load()
	c.mu.Unlock()
	if already {
		go h.OnConnect()
	}
}

// Session returns the client's current underlying session, or nil if not
// connected.
func (c *Client) Session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// SendRequest forwards to the current session's SendRequest.
func (c *Client) SendRequest(body []byte) (uint32, error) {
	s := c.Session()
	if s == nil {
		return 0, fmt.Errorf("client: not connected")
	}
	return s.SendRequest(body)
}

// Close cleanly shuts down the client; idempotent.
func (c *Client) Close() error {
	if !c.connected.CompareAndSwap(true, false) {
		return nil
	}
	c.closed.Store(true)
	close(c.closeCh)

	c.mu.Lock()
	sess := c.sess
	handlers := c.handlers
	c.mu.Unlock()

	if sess != nil {
		sess.Close("client closed")
	}
	for _, h := range handlers {
		h.OnClose()
	}
	return nil
}

// connect dials and sends bind_req, retrying the dial per ReconnectMax.
func (c *Client) connect() error {
	var lastErr error
	for {
		if c.cfg.ReconnectMax == 0 && c.attempts > 0 {
			return lastErr
		}
		if c.cfg.ReconnectMax > 0 && c.attempts >= c.cfg.ReconnectMax {
			return fmt.Errorf("max reconnect attempts reached: %w", lastErr)
		}
		c.attempts++
		if err := c.dialAndBind(); err != nil {
			lastErr = err
			if c.cfg.ReconnectMax > 0 {
				time.Sleep(time.Duration(c.attempts) * 100 * time.Millisecond)
				continue
			}
			return lastErr
		}
		return nil
	}
}

// reconnectHook wraps the caller's handler so a session close triggers
// OnError plus an automatic reconnect attempt, unless Close was called.
type reconnectHook struct {
	session.Handler
	c *Client
}

func (h reconnectHook) OnClosed(s *session.Session, reason string, wasOpen bool) {
	h.Handler.OnClosed(s, reason, wasOpen)
	if h.c.closed.Load() {
		return
	}
	h.c.mu.Lock()
	handlers := h.c.handlers
	h.c.mu.Unlock()
	for _, eh := range handlers {
		eh.OnError(fmt.Errorf("session closed: %s", reason))
	}
	go h.c.reconnect()
}

func (c *Client) reconnect() {
	c.connected.Store(false)
	c.attempts = 0
	_ = c.connect()
}

func (c *Client) dialAndBind() error {
	conn, err := net.Dial("tcp", c.cfg.Addr)
	if err != nil {
		return err
	}

	sess := session.NewSession(conn, c.cfg.Session, c.bufPool, reconnectHook{c.handler, c}, nil)
	sess.Start()

	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()

	if _, err := sess.SendBindRequest(c.cfg.SystemID); err != nil {
		sess.Close("bind_req failed")
		return err
	}

	c.connected.Store(true)

	c.mu.Lock()
	handlers := c.handlers
	c.mu.Unlock()
	for _, h := range handlers {
		go h.OnConnect()
	}

	if c.cfg.HeartbeatInterval > 0 {
		go c.heartbeatLoop(sess)
	}
	return nil
}

func (c *Client) heartbeatLoop(sess *session.Session) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if sess.State() != api.SessionOpen {
				return
			}
			sess.Ping()
		case <-c.closeCh:
			return
		}
	}
}
