// Package session provides the propagation-aware, cloneable context store
// backing adapters.ContextAdapter's api.Context values.
// Author: momentics <momentics@gmail.com>
//
// contextStore is a thread-safe, cloneable key/value store with optional
// per-key TTL and a propagation flag, satisfying api.Context.

package session

import (
	"sync"
	"time"

	"github.com/momentics/hioload-ws/api"
)

type entry struct {
	val        any
	propagated bool
	expiry     time.Time
}

// contextStore is a thread-safe, cloneable implementation of api.Context.
type contextStore struct {
	mu    sync.RWMutex
	store map[string]entry
}

// Ensure compliance with api.Context interface.
var _ api.Context = (*contextStore)(nil)

// NewContextStore creates an empty, thread-safe, propagation-aware context.
func NewContextStore() *contextStore {
	return &contextStore{
		store: make(map[string]entry),
	}
}

// Set assigns a value with optional propagation.
func (c *contextStore) Set(key string, value any, propagated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{val: value, propagated: propagated}
}

// Get fetches a value, returning (value, exists).
func (c *contextStore) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || (!e.expiry.IsZero() && time.Now().After(e.expiry)) {
		return nil, false
	}
	return e.val, true
}

// Delete removes a key.
func (c *contextStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// Clone creates a shallow copy satisfying api.Context.
func (c *contextStore) Clone() api.Context {
	cp := make(map[string]entry, len(c.store))
	c.mu.RLock()
	for k, v := range c.store {
		cp[k] = v
	}
	c.mu.RUnlock()
	return &contextStore{store: cp}
}

// WithExpiration sets a TTL for a specific key.
func (c *contextStore) WithExpiration(key string, ttlNanos int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.store[key]; ok {
		e.expiry = time.Now().Add(time.Duration(ttlNanos))
		c.store[key] = e
	}
}

// IsPropagated checks if a key is marked for propagation.
func (c *contextStore) IsPropagated(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	return ok && e.propagated
}

// Keys returns all active keys in the context.
func (c *contextStore) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.store))
	now := time.Now()
	for k, e := range c.store {
		if !e.expiry.IsZero() && now.After(e.expiry) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

