// File: session/metrics.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Metrics holds one session's atomically-updated counters, grounded on
// session_metrics.hpp. Uptime is a supplemented accessor mirroring the
// original's uptime() method.

package session

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-ws/api"
)

// Metrics is a session's live counters. Zero value is ready to use.
type Metrics struct {
	bytesSent         atomic.Uint64
	bytesReceived     atomic.Uint64
	messagesSent      atomic.Uint64
	messagesReceived  atomic.Uint64
	errors            atomic.Uint64
	bufferCompactions atomic.Uint64
	createdAt         time.Time
	isClosed          atomic.Bool
}

// NewMetrics constructs a Metrics stamped with the current time.
func NewMetrics() *Metrics {
	return &Metrics{createdAt: time.Now()}
}

func (m *Metrics) AddBytesSent(n uint64)         { m.bytesSent.Add(n) }
func (m *Metrics) AddBytesReceived(n uint64)     { m.bytesReceived.Add(n) }
func (m *Metrics) IncMessagesSent()              { m.messagesSent.Add(1) }
func (m *Metrics) IncMessagesReceived()          { m.messagesReceived.Add(1) }
func (m *Metrics) IncErrors()                    { m.errors.Add(1) }
func (m *Metrics) IncBufferCompactions()         { m.bufferCompactions.Add(1) }
func (m *Metrics) SetClosed()                    { m.isClosed.Store(true) }

// Uptime returns how long this session has existed.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.createdAt)
}

// Reset zeroes every counter and re-stamps createdAt, mirroring
// session_metrics::reset.
func (m *Metrics) Reset() {
	m.bytesSent.Store(0)
	m.bytesReceived.Store(0)
	m.messagesSent.Store(0)
	m.messagesReceived.Store(0)
	m.errors.Store(0)
	m.bufferCompactions.Store(0)
	m.createdAt = time.Now()
	m.isClosed.Store(false)
}

// Snapshot takes a point-in-time, non-atomic copy of the counters.
func (m *Metrics) Snapshot() api.SessionMetricsSnapshot {
	return api.SessionMetricsSnapshot{
		BytesSent:         m.bytesSent.Load(),
		BytesReceived:     m.bytesReceived.Load(),
		MessagesSent:      m.messagesSent.Load(),
		MessagesReceived:  m.messagesReceived.Load(),
		Errors:            m.errors.Load(),
		BufferCompactions: m.bufferCompactions.Load(),
		IsClosed:          m.isClosed.Load(),
	}
}
