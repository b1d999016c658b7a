// File: sessionmgr/manager.go
// Package sessionmgr implements the session registry that owns every live
// connection's assigned id, grounded on session_manager.hpp: add/get/
// remove/range, bulk graceful/immediate shutdown, aggregate metrics, and
// sweeping out sessions that closed on their own.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sharded by id: the id is a manager-assigned uint64 counter, so the shard
// index is just id & mask with no hashing needed.

package sessionmgr

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ws/api"
)

type shard struct {
	mu       sync.RWMutex
	sessions map[uint64]api.Session
}

// Manager is a sharded, concurrency-safe registry of live sessions.
type Manager struct {
	shards []*shard
	mask   uint64
	nextID atomic.Uint64
}

// NewManager constructs a Manager with shardCount shards, rounded up to
// the next power of two (0 or negative defaults to 16).
func NewManager(shardCount int) *Manager {
	if shardCount <= 0 {
		shardCount = 16
	}
	n := nextPowerOfTwo(uint64(shardCount))
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{sessions: make(map[uint64]api.Session)}
	}
	return &Manager{shards: shards, mask: n - 1}
}

func (m *Manager) shardFor(id uint64) *shard {
	return m.shards[id&m.mask]
}

// closeHooker is implemented by *session.Session. Detected structurally so
// this package never needs to import session and create a cycle.
type closeHooker interface {
	AddCloseHook(func())
}

// idSetter is implemented by *session.Session.
type idSetter interface {
	SetID(uint64)
}

// Add installs s under a freshly assigned id. If s supports AddCloseHook,
// the manager wires a hook that removes s from the registry as soon as it
// closes, so CloseAllImmediate followed by Count converges to zero without
// an explicit cleanup pass.
func (m *Manager) Add(s api.Session) uint64 {
	id := m.nextID.Add(1)

	sh := m.shardFor(id)
	sh.mu.Lock()
	sh.sessions[id] = s
	sh.mu.Unlock()

	if setter, ok := s.(idSetter); ok {
		setter.SetID(id)
	}
	if hooker, ok := s.(closeHooker); ok {
		hooker.AddCloseHook(func() { m.Remove(id) })
	}

	return id
}

// Get retrieves a session by id.
func (m *Manager) Get(id uint64) (api.Session, bool) {
	sh := m.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	return s, ok
}

// Remove drops a session from the registry. Idempotent.
func (m *Manager) Remove(id uint64) {
	sh := m.shardFor(id)
	sh.mu.Lock()
	delete(sh.sessions, id)
	sh.mu.Unlock()
}

// Range invokes fn once per session in a point-in-time snapshot; fn may
// safely call back into the Manager (Remove, Get) without deadlocking.
func (m *Manager) Range(fn func(id uint64, s api.Session)) {
	for _, sh := range m.shards {
		sh.mu.RLock()
		snapshot := make(map[uint64]api.Session, len(sh.sessions))
		for id, s := range sh.sessions {
			snapshot[id] = s
		}
		sh.mu.RUnlock()

		for id, s := range snapshot {
			fn(id, s)
		}
	}
}

// CloseAll initiates graceful unbind on every live session.
func (m *Manager) CloseAll() {
	m.Range(func(_ uint64, s api.Session) {
		s.Unbind()
	})
}

// CloseAllImmediate closes every live session without the handshake.
func (m *Manager) CloseAllImmediate() {
	m.Range(func(_ uint64, s api.Session) {
		s.Close("session manager shutdown")
	})
}

// Count returns the number of sessions currently registered.
func (m *Manager) Count() int {
	total := 0
	for _, sh := range m.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}

// AggregateMetrics summarizes every registered session's counters,
// mirroring session_manager::aggregate_metrics.
type AggregateMetrics struct {
	TotalBytesSent        uint64
	TotalBytesReceived    uint64
	TotalMessagesSent     uint64
	TotalMessagesReceived uint64
	TotalErrors           uint64
	ActiveSessions        int
	OpenSessions          int
	ClosedSessions        int
}

// Metrics aggregates every registered session's Metrics() snapshot.
func (m *Manager) Metrics() AggregateMetrics {
	var agg AggregateMetrics
	m.Range(func(_ uint64, s api.Session) {
		agg.ActiveSessions++
		snap := s.Metrics()
		agg.TotalBytesSent += snap.BytesSent
		agg.TotalBytesReceived += snap.BytesReceived
		agg.TotalMessagesSent += snap.MessagesSent
		agg.TotalMessagesReceived += snap.MessagesReceived
		agg.TotalErrors += snap.Errors
		if snap.IsClosed {
			agg.ClosedSessions++
		} else {
			agg.OpenSessions++
		}
	})
	return agg
}

// CleanupClosedSessions removes every registered session whose Metrics
// report IsClosed, returning how many were swept. Sessions wired via
// AddCloseHook remove themselves automatically; this exists for sessions
// added without that hook, or as a periodic backstop.
func (m *Manager) CleanupClosedSessions() int {
	removed := 0
	for _, sh := range m.shards {
		sh.mu.Lock()
		for id, s := range sh.sessions {
			if s.Metrics().IsClosed {
				delete(sh.sessions, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

var _ api.SessionManager = (*Manager)(nil)
