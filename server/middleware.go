// File: server/middleware.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Session-level middleware: each wraps a session.Handler with cross-cutting
// behavior (logging, panic recovery, processed-message counting) applied
// around every callback, the same chain-of-wrapping shape the teacher used
// for its own generic api.Handler middleware.

package server

import (
	"log"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/session"
	"github.com/momentics/hioload-ws/wire"
)

// loggingHandler logs every callback's arrival and any protocol error.
type loggingHandler struct {
	next session.Handler
}

// LoggingMiddleware logs entry of every session callback and any protocol
// error reported on it.
func LoggingMiddleware(next session.Handler) session.Handler {
	return loggingHandler{next: next}
}

func (h loggingHandler) OnBindRequest(s *session.Session, req wire.BindRequest, seq uint32) {
	log.Printf("[session] bind_req seq=%d system_id=%q", seq, req.SystemID)
	h.next.OnBindRequest(s, req, seq)
}

func (h loggingHandler) OnBindResponse(s *session.Session, resp wire.BindResponse, seq uint32, status wire.CommandStatus) {
	log.Printf("[session] bind_resp seq=%d status=%s", seq, status)
	h.next.OnBindResponse(s, resp, seq, status)
}

func (h loggingHandler) OnStreamRequest(s *session.Session, req wire.StreamRequest, seq uint32) {
	log.Printf("[session] stream_req seq=%d bytes=%d", seq, len(req.MessageBody))
	h.next.OnStreamRequest(s, req, seq)
}

func (h loggingHandler) OnStreamResponse(s *session.Session, resp wire.StreamResponse, seq uint32, status wire.CommandStatus) {
	log.Printf("[session] stream_resp seq=%d status=%s", seq, status)
	h.next.OnStreamResponse(s, resp, seq, status)
}

func (h loggingHandler) OnClosed(s *session.Session, reason string, wasOpen bool) {
	log.Printf("[session] closed reason=%q wasOpen=%v", reason, wasOpen)
	h.next.OnClosed(s, reason, wasOpen)
}

func (h loggingHandler) OnProtocolError(s *session.Session, err error) {
	log.Printf("[session] protocol error: %v", err)
	h.next.OnProtocolError(s, err)
}

var _ session.Handler = loggingHandler{}

// recoveryHandler recovers from a panic in any wrapped callback rather than
// letting it take down the session's dispatch goroutine.
type recoveryHandler struct {
	next session.Handler
}

// RecoveryMiddleware recovers from panics raised by next's callbacks,
// reporting them to next.OnProtocolError instead of propagating.
func RecoveryMiddleware(next session.Handler) session.Handler {
	return recoveryHandler{next: next}
}

func (h recoveryHandler) guard(s *session.Session, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] panic recovered: %v", r)
			h.next.OnProtocolError(s, api.ErrProtocolViolation)
		}
	}()
	fn()
}

func (h recoveryHandler) OnBindRequest(s *session.Session, req wire.BindRequest, seq uint32) {
	h.guard(s, func() { h.next.OnBindRequest(s, req, seq) })
}

func (h recoveryHandler) OnBindResponse(s *session.Session, resp wire.BindResponse, seq uint32, status wire.CommandStatus) {
	h.guard(s, func() { h.next.OnBindResponse(s, resp, seq, status) })
}

func (h recoveryHandler) OnStreamRequest(s *session.Session, req wire.StreamRequest, seq uint32) {
	h.guard(s, func() { h.next.OnStreamRequest(s, req, seq) })
}

func (h recoveryHandler) OnStreamResponse(s *session.Session, resp wire.StreamResponse, seq uint32, status wire.CommandStatus) {
	h.guard(s, func() { h.next.OnStreamResponse(s, resp, seq, status) })
}

func (h recoveryHandler) OnClosed(s *session.Session, reason string, wasOpen bool) {
	h.guard(s, func() { h.next.OnClosed(s, reason, wasOpen) })
}

func (h recoveryHandler) OnProtocolError(s *session.Session, err error) {
	h.guard(s, func() { h.next.OnProtocolError(s, err) })
}

var _ session.Handler = recoveryHandler{}

// metricsHandler increments a "handler.processed" counter in control's
// stats on every request-carrying callback.
type metricsHandler struct {
	next    session.Handler
	control api.Control
}

// MetricsMiddleware increments the "handler.processed" counter in control's
// stats for every bind_req/stream_req the wrapped handler observes.
func MetricsMiddleware(control api.Control) Middleware {
	return func(next session.Handler) session.Handler {
		return metricsHandler{next: next, control: control}
	}
}

func (h metricsHandler) bump() {
	stats := h.control.Stats()
	count, _ := stats["handler.processed"].(int64)
	h.control.SetConfig(map[string]any{"handler.processed": count + 1})
}

func (h metricsHandler) OnBindRequest(s *session.Session, req wire.BindRequest, seq uint32) {
	h.bump()
	h.next.OnBindRequest(s, req, seq)
}

func (h metricsHandler) OnBindResponse(s *session.Session, resp wire.BindResponse, seq uint32, status wire.CommandStatus) {
	h.next.OnBindResponse(s, resp, seq, status)
}

func (h metricsHandler) OnStreamRequest(s *session.Session, req wire.StreamRequest, seq uint32) {
	h.bump()
	h.next.OnStreamRequest(s, req, seq)
}

func (h metricsHandler) OnStreamResponse(s *session.Session, resp wire.StreamResponse, seq uint32, status wire.CommandStatus) {
	h.next.OnStreamResponse(s, resp, seq, status)
}

func (h metricsHandler) OnClosed(s *session.Session, reason string, wasOpen bool) {
	h.next.OnClosed(s, reason, wasOpen)
}

func (h metricsHandler) OnProtocolError(s *session.Session, err error) {
	h.next.OnProtocolError(s, err)
}

var _ session.Handler = metricsHandler{}
