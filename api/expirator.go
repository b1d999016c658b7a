// File: api/expirator.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Expirator is the capability set shared by every deadline-indexed
// key/value store implementation (heap, timing-wheel, lock-free). Consumers
// bind to this contract, never to a concrete variant.

package api

import "time"

// ExpiryHandler is invoked, exactly once per entry, when its deadline passes.
// The payload is moved out of the implementation's internal indices before
// this is called; the entry is no longer visible to queries.
type ExpiryHandler[K comparable, V any] func(key K, value V)

// ExpiratorErrorHandler receives errors reported by the implementation,
// including a panic raised inside an ExpiryHandler: the implementations
// recover it and pass it here instead of letting it escape the timer
// goroutine.
type ExpiratorErrorHandler func(err error)

// Expirator is the common contract for all three variants described by the
// design: heap, hierarchical timing-wheel, and lock-free MPSC-queued.
type Expirator[K comparable, V any] interface {
	// Add inserts key with the given time-to-live. Returns false if key is
	// already present. ttl <= 0 means the entry is already expired and will
	// fire at the next scheduling iteration.
	Add(key K, ttl time.Duration, value V) bool

	// Remove cancels a pending expiry; no callback fires. Returns whether
	// the key was present.
	Remove(key K) bool

	// UpdateExpiry moves key's deadline to now+ttl. False if key is absent.
	UpdateExpiry(key K, ttl time.Duration) bool

	// Refresh moves key's deadline to current_deadline+delta. False if key
	// is absent.
	Refresh(key K, delta time.Duration) bool

	// GetInfo returns the stored value without affecting the deadline.
	GetInfo(key K) (V, bool)

	// GetRemainingTime returns the time until key's deadline, clamped to
	// zero if already past.
	GetRemainingTime(key K) (time.Duration, bool)

	// Contains reports whether key is currently tracked.
	Contains(key K) bool

	// Size returns the number of tracked entries.
	Size() int

	// Empty reports Size() == 0.
	Empty() bool

	// IsRunning reports whether the timer is armed.
	IsRunning() bool

	// Clear drops every entry without invoking the callback.
	Clear()

	// ExpireAll invokes the callback for every entry, in unspecified order,
	// as if each had reached its deadline. Used on session close to flush
	// outstanding requests as timeouts.
	ExpireAll()

	// Start arms the timer. Idempotent.
	Start()

	// Stop disarms the timer. After Stop returns, no further callbacks
	// fire. Idempotent.
	Stop()
}
