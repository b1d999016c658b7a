// File: session/executor.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor picks how a session's internal operations are serialized,
// mirroring threading_policy.hpp's SingleThreaded/MultiThreaded pair.
// DirectExecutor calls inline, for sessions owned by a single goroutine.
// SerialExecutor queues onto a dedicated goroutine, for sessions whose
// Send/Unbind/Close may be called concurrently from callers outside the
// session's own read loop — the Go equivalent of a boost::asio::strand.

package session

// Executor serializes access to a session's mutable state.
type Executor interface {
	// Dispatch runs fn, queued behind any previously dispatched fn on this
	// executor. DirectExecutor runs fn inline on the caller; SerialExecutor
	// blocks the caller only while its backlog is full.
	Dispatch(fn func())

	// Close releases any resources the executor holds (its goroutine, if
	// any). Safe to call more than once.
	Close()
}

// DirectExecutor runs fn synchronously on the calling goroutine. Correct
// only when all callers of Dispatch already run on the session's single
// owning goroutine.
type DirectExecutor struct{}

func (DirectExecutor) Dispatch(fn func()) { fn() }
func (DirectExecutor) Close()             {}

// SerialExecutor runs every dispatched fn, in submission order, on one
// dedicated goroutine — giving multiple calling goroutines strand-like
// mutual exclusion without a lock around the session's state.
type SerialExecutor struct {
	queue chan func()
	done  chan struct{}
}

// NewSerialExecutor starts the background goroutine and returns the
// executor. backlog bounds how many pending dispatches may queue before
// Dispatch blocks its caller.
func NewSerialExecutor(backlog int) *SerialExecutor {
	e := &SerialExecutor{
		queue: make(chan func(), backlog),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *SerialExecutor) run() {
	defer close(e.done)
	for fn := range e.queue {
		fn()
	}
}

func (e *SerialExecutor) Dispatch(fn func()) {
	e.queue <- fn
}

// Close stops accepting new work and waits for the goroutine to drain what
// was already queued.
func (e *SerialExecutor) Close() {
	close(e.queue)
	<-e.done
}
