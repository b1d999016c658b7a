// File: session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Session is the bidirectional, length-prefixed request/response engine
// that sits on top of one net.Conn. Grounded on session_impl.hpp/.inl: a
// read loop that accumulates into a compacting buffer and dispatches
// complete frames, a send path that queues behind an in-flight write and
// applies backpressure, and a three-state lifecycle (open/unbinding/
// closed). Session itself only assigns and echoes sequence numbers; the
// outstanding-request timeout table lives one layer up, in the protocol
// façade (see facade.Client), per §4.6 — Session has no opinion on how
// long a caller is willing to wait for a stream_resp.

package session

import (
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/buffer"
	"github.com/momentics/hioload-ws/wire"
)

// Handler receives the decoded PDUs and lifecycle events of one session.
// Implementations typically come from the façade or client/server drivers.
type Handler interface {
	OnBindRequest(s *Session, req wire.BindRequest, seq uint32)
	OnBindResponse(s *Session, resp wire.BindResponse, seq uint32, status wire.CommandStatus)
	OnStreamRequest(s *Session, req wire.StreamRequest, seq uint32)
	OnStreamResponse(s *Session, resp wire.StreamResponse, seq uint32, status wire.CommandStatus)
	OnClosed(s *Session, reason string, wasOpen bool)
	OnProtocolError(s *Session, err error)
}

type receivingState int

const (
	receiving receivingState = iota
	pendingPause
	paused
)

// Session is one framed connection. Its public methods submit work to the
// executor; a SerialExecutor serializes that work onto one logical thread
// of control, while the default DirectExecutor runs it on the calling
// goroutine (see Executor and NewSession).
type Session struct {
	id uint64

	conn     net.Conn
	config   Config
	handler  Handler
	executor Executor

	mu             sync.Mutex
	state          stateObject
	closeInitiated bool
	sequenceNumber uint32
	recvState      receivingState
	backpressure   *Backpressure
	sendQueue      *queue.Queue
	pendingBytes   int
	writerActive   bool

	recvBuf      *buffer.Flat
	resumeSignal chan struct{}
	closedCh     chan struct{}

	metrics *Metrics

	unbindTimer *time.Timer

	closeHooks []func()
}

// NewSession constructs a Session over conn. The session is inert until
// Start is called. executor may be nil, in which case a DirectExecutor is
// used (correct only if the caller never touches the session from more
// than one goroutine at a time).
func NewSession(conn net.Conn, config Config, pool api.BufferPool, handler Handler, executor Executor) *Session {
	if executor == nil {
		executor = DirectExecutor{}
	}
	s := &Session{
		conn:         conn,
		config:       config,
		handler:      handler,
		executor:     executor,
		state:        openState{},
		recvState:    receiving,
		backpressure: NewBackpressure(config.BackpressureLowWatermark, config.BackpressureHighWatermark),
		sendQueue:    queue.New(),
		recvBuf:      buffer.NewFlat(pool, config.ReceiveBufSize, config.NUMANode),
		resumeSignal: make(chan struct{}, 1),
		closedCh:     make(chan struct{}),
		metrics:      NewMetrics(),
	}
	return s
}

// ID returns the manager-assigned id for this session (0 until Add is
// called on a sessionmgr.Manager).
func (s *Session) ID() uint64 { return s.id }

// SetID is used by sessionmgr.Manager to stamp the assigned id.
func (s *Session) SetID(id uint64) { s.id = id }

// AddCloseHook registers fn to run after this session closes, in addition
// to the Handler's OnClosed. sessionmgr.Manager uses this to remove a
// session from its registry without the session needing to know about
// the manager itself.
func (s *Session) AddCloseHook(fn func()) {
	s.mu.Lock()
	s.closeHooks = append(s.closeHooks, fn)
	s.mu.Unlock()
}

// Start begins the read loop on its own goroutine. Call once. The read
// loop owns the physical conn.Read calls directly — blocking I/O must
// never run inline on an executor.Dispatch, since DirectExecutor runs its
// callback on the caller's own goroutine.
func (s *Session) Start() {
	go s.receiveLoop()
}

// State reports the session's current lifecycle state.
func (s *Session) State() api.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return apiState(s.state)
}

// Metrics returns a point-in-time snapshot of this session's counters.
func (s *Session) Metrics() api.SessionMetricsSnapshot {
	return s.metrics.Snapshot()
}

// SendRequest serializes body as a stream_req and returns its sequence
// number. Callers that need an outstanding-request timeout should track
// it themselves or via facade.Client.
func (s *Session) SendRequest(body []byte) (uint32, error) {
	s.mu.Lock()
	seq := s.nextSequenceNumberLocked()
	s.mu.Unlock()

	s.executor.Dispatch(func() {
		s.doSendImpl(wire.CmdStreamReq, seq, wire.StatusOK, body)
	})
	return seq, nil
}

// SendResponse serializes body as a stream_resp echoing seq.
func (s *Session) SendResponse(seq uint32, body []byte, ok bool) error {
	status := wire.StatusOK
	if !ok {
		status = wire.StatusFail
	}
	s.executor.Dispatch(func() {
		s.doSendImpl(wire.CmdStreamResp, seq, status, body)
	})
	return nil
}

// SendBindRequest begins a bind handshake with the given system id.
func (s *Session) SendBindRequest(systemID string) (uint32, error) {
	var buf bytes.Buffer
	if err := wire.EncodeBindRequest(&buf, wire.BindRequest{SystemID: systemID}); err != nil {
		return 0, err
	}
	s.mu.Lock()
	seq := s.nextSequenceNumberLocked()
	s.mu.Unlock()

	body := buf.Bytes()
	s.executor.Dispatch(func() {
		s.doSendImpl(wire.CmdBindReq, seq, wire.StatusOK, body)
	})
	return seq, nil
}

// SendBindResponse answers a bind_req with the local system id.
func (s *Session) SendBindResponse(seq uint32, systemID string, ok bool) error {
	var buf bytes.Buffer
	if err := wire.EncodeBindResponse(&buf, wire.BindResponse{SystemID: systemID}); err != nil {
		return err
	}
	status := wire.StatusOK
	if !ok {
		status = wire.StatusFail
	}
	body := buf.Bytes()
	s.executor.Dispatch(func() {
		s.doSendImpl(wire.CmdBindResp, seq, status, body)
	})
	return nil
}

// Ping sends a liveness probe (enquire_link). The peer answers with
// enquire_link_resp; no timeout is tracked for it, since liveness probes
// are fire-and-forget.
func (s *Session) Ping() {
	s.executor.Dispatch(func() {
		s.sendCommand(wire.CmdEnquireLinkReq, 0, wire.StatusOK)
	})
}

// Unbind begins the graceful shutdown handshake: send unbind_req, wait for
// unbind_resp (or the configured timeout) before closing.
func (s *Session) Unbind() error {
	s.executor.Dispatch(s.doUnbind)
	return nil
}

// Close tears the session down immediately. Idempotent.
func (s *Session) Close(reason string) {
	s.mu.Lock()
	if s.closeInitiated {
		s.mu.Unlock()
		return
	}
	s.closeInitiated = true
	s.mu.Unlock()

	s.executor.Dispatch(func() {
		s.doClose(reason)
	})
}

func (s *Session) nextSequenceNumberLocked() uint32 {
	s.sequenceNumber++
	if s.sequenceNumber == 0 {
		s.sequenceNumber = 1
	}
	return s.sequenceNumber
}

// unbindTimeout is how long doUnbind waits for unbind_resp before forcing
// the session closed. Unrelated to stream_req timeouts, which the façade
// layer above Session tracks on its own.
func unbindTimeout(c Config) time.Duration {
	if c.UnbindTimeout > 0 {
		return c.UnbindTimeout
	}
	return 5 * time.Second
}

// pauseReceiving and resumeReceiving only flip recvState and wake the
// receive loop if it's blocked waiting — they're called from whatever
// goroutine is running doSendImpl/onWriteDone, which may not be the
// receive loop's own goroutine.
func (s *Session) pauseReceiving() {
	s.mu.Lock()
	if s.recvState == receiving {
		s.recvState = pendingPause
	}
	s.mu.Unlock()
}

func (s *Session) resumeReceiving() {
	s.mu.Lock()
	wasBlocked := s.recvState != receiving
	s.recvState = receiving
	s.mu.Unlock()

	if wasBlocked {
		select {
		case s.resumeSignal <- struct{}{}:
		default:
		}
	}
}

// receiveLoop owns recvBuf and the connection's read side exclusively.
// Every decoded frame's body is copied out before handing it to the
// executor, since recvBuf's backing array is reused (and may be
// compacted) on the very next loop iteration.
func (s *Session) receiveLoop() {
	for {
		s.mu.Lock()
		if s.recvState == pendingPause {
			s.recvState = paused
		}
		blocked := s.recvState == paused
		s.mu.Unlock()

		if blocked {
			select {
			case <-s.resumeSignal:
			case <-s.closedCh:
				return
			}
			continue
		}

		if s.recvBuf.Size() >= wire.HeaderLength {
			frame, consumed, ok, err := wire.DecodeFrame(s.recvBuf.Bytes(), s.config.MaxCommandLength)
			if err != nil {
				s.closeAsync(fmt.Sprintf("frame decode error: %v", err))
				return
			}
			if ok {
				owned := frame
				owned.Body = append([]byte(nil), frame.Body...)
				s.recvBuf.Consume(consumed)
				s.executor.Dispatch(func() {
					s.processMessage(owned)
				})
				continue
			}
		}

		dst, compacted, err := s.recvBuf.Prepare(64 * 1024)
		if err != nil {
			s.closeAsync(fmt.Sprintf("receive buffer exhausted: %v", err))
			return
		}
		if compacted {
			s.metrics.IncBufferCompactions()
		}

		n, err := s.conn.Read(dst)
		if err != nil {
			s.closeAsync(err.Error())
			return
		}
		s.recvBuf.Commit(n)
		s.metrics.AddBytesReceived(uint64(n))
	}
}

// closeAsync hands a close request to the executor so doClose always
// runs on the session's logical thread, never on the receive loop's
// dedicated I/O goroutine directly.
func (s *Session) closeAsync(reason string) {
	s.executor.Dispatch(func() {
		s.doClose(reason)
	})
}

func (s *Session) processMessage(frame wire.Frame) {
	s.metrics.IncMessagesReceived()

	if frame.CmdID.IsResponse() {
		s.handleResponse(frame)
	} else {
		s.handleRequest(frame)
	}
}

func (s *Session) handleResponse(frame wire.Frame) {
	switch frame.CmdID {
	case wire.CmdEnquireLinkResp:
		// liveness only, nothing to deliver.
	case wire.CmdUnbindResp:
		if s.unbindTimer != nil {
			s.unbindTimer.Stop()
		}
		s.doClose("unbind_resp received")
	case wire.CmdBindResp:
		resp, err := wire.DecodeBindResponse(frame.Body)
		if err != nil {
			s.reportDecodeError(frame, err)
			return
		}
		if s.handler != nil {
			s.handler.OnBindResponse(s, resp, frame.SeqNum, frame.Status)
		}
	case wire.CmdStreamResp:
		resp, err := wire.DecodeStreamResponse(frame.Body)
		if err != nil {
			s.reportDecodeError(frame, err)
			return
		}
		if s.handler != nil {
			s.handler.OnStreamResponse(s, resp, frame.SeqNum, frame.Status)
		}
	default:
		s.reportDecodeError(frame, api.ErrUnknownCommand)
	}
}

func (s *Session) handleRequest(frame wire.Frame) {
	switch frame.CmdID {
	case wire.CmdEnquireLinkReq:
		s.sendCommand(wire.CmdEnquireLinkResp, frame.SeqNum, wire.StatusOK)
	case wire.CmdUnbindReq:
		s.mu.Lock()
		if s.state.canUnbind() {
			s.state = unbindingState{}
		}
		s.mu.Unlock()
		s.sendCommand(wire.CmdUnbindResp, frame.SeqNum, wire.StatusOK)
		s.doClose("unbind_req received")
	case wire.CmdBindReq:
		req, err := wire.DecodeBindRequest(frame.Body)
		if err != nil {
			s.reportDecodeError(frame, err)
			return
		}
		if s.handler != nil {
			s.handler.OnBindRequest(s, req, frame.SeqNum)
		}
	case wire.CmdStreamReq:
		req, err := wire.DecodeStreamRequest(frame.Body)
		if err != nil {
			s.reportDecodeError(frame, err)
			return
		}
		if s.handler != nil {
			s.handler.OnStreamRequest(s, req, frame.SeqNum)
		}
	default:
		s.reportDecodeError(frame, api.ErrUnknownCommand)
	}
}

func (s *Session) reportDecodeError(frame wire.Frame, err error) {
	s.metrics.IncErrors()
	if s.handler != nil {
		s.handler.OnProtocolError(s, err)
	}
	s.doClose(fmt.Sprintf("decode error on %v: %v", frame.CmdID, err))
}

func (s *Session) doSendImpl(cmdID wire.CommandID, seq uint32, status wire.CommandStatus, body []byte) {
	s.mu.Lock()
	canSend := s.state.canSend()
	s.mu.Unlock()

	if !canSend {
		if s.handler != nil {
			s.handler.OnProtocolError(s, api.ErrProtocolViolation)
		}
		return
	}

	var out bytes.Buffer
	wire.EncodeFrame(&out, cmdID, seq, status, body)
	s.enqueueFrame(out.Bytes())

	s.metrics.IncMessagesSent()
	s.doSend()
}

func (s *Session) sendCommand(cmdID wire.CommandID, seq uint32, status wire.CommandStatus) {
	if seq == 0 {
		s.mu.Lock()
		seq = s.nextSequenceNumberLocked()
		s.mu.Unlock()
	}

	var out bytes.Buffer
	wire.EncodeFrame(&out, cmdID, seq, status, nil)
	s.enqueueFrame(out.Bytes())

	s.metrics.IncMessagesSent()
	s.doSend()
}

// enqueueFrame pushes one already-encoded frame onto the outbound FIFO and
// applies the pause edge if this push crossed the high watermark.
func (s *Session) enqueueFrame(frame []byte) {
	s.mu.Lock()
	s.sendQueue.Add(frame)
	s.pendingBytes += len(frame)
	shouldPause := s.backpressure.ShouldPause(s.pendingBytes)
	s.mu.Unlock()

	if shouldPause {
		s.pauseReceiving()
	}
}

// doSend drains every currently queued frame into one coalesced write, the
// same double-buffer-swap shape as the original's pending/writing split —
// adapted here to a FIFO of discrete frames rather than one growing byte
// slice, so a frame is never split or merged with its neighbor mid-queue.
func (s *Session) doSend() {
	s.mu.Lock()
	if s.writerActive || s.sendQueue.Length() == 0 {
		s.mu.Unlock()
		return
	}
	var writing []byte
	for s.sendQueue.Length() > 0 {
		writing = append(writing, s.sendQueue.Peek().([]byte)...)
		s.sendQueue.Remove()
	}
	s.pendingBytes = 0
	s.writerActive = true
	shouldResume := s.backpressure.ShouldResume(s.pendingBytes)
	s.mu.Unlock()

	if shouldResume {
		s.resumeReceiving()
	}

	go func() {
		n, err := s.conn.Write(writing)
		s.executor.Dispatch(func() {
			s.onWriteDone(n, err)
		})
	}()
}

func (s *Session) onWriteDone(n int, err error) {
	if err != nil {
		s.doClose(err.Error())
		return
	}
	s.metrics.AddBytesSent(uint64(n))

	s.mu.Lock()
	s.writerActive = false
	pending := s.sendQueue.Length()
	s.mu.Unlock()

	if pending > 0 {
		s.doSend()
	}
}

func (s *Session) doUnbind() {
	s.mu.Lock()
	if !s.state.canUnbind() {
		s.mu.Unlock()
		return
	}
	s.state = unbindingState{}
	s.mu.Unlock()

	s.sendCommand(wire.CmdUnbindReq, 0, wire.StatusOK)

	s.unbindTimer = time.AfterFunc(unbindTimeout(s.config), func() {
		s.executor.Dispatch(func() {
			s.mu.Lock()
			_, stillUnbinding := s.state.(unbindingState)
			s.mu.Unlock()
			if stillUnbinding {
				s.doClose("unbind timeout")
			}
		})
	})
}

func (s *Session) doClose(reason string) {
	s.mu.Lock()
	if _, already := s.state.(closedState); already {
		s.mu.Unlock()
		return
	}
	wasOpen := s.isOpenLocked()
	s.recvState = paused
	s.state = closedState{}
	s.mu.Unlock()

	close(s.closedCh)

	if s.unbindTimer != nil {
		s.unbindTimer.Stop()
	}
	s.conn.Close()
	s.recvBuf.Release()
	s.metrics.SetClosed()

	if s.handler != nil {
		s.handler.OnClosed(s, reason, wasOpen)
	}

	s.mu.Lock()
	hooks := s.closeHooks
	s.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}
}

func (s *Session) isOpenLocked() bool {
	_, ok := s.state.(openState)
	return ok
}

var _ api.Session = (*Session)(nil)
