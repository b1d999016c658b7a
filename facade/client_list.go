// File: facade/client_list.go
// Package facade
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ClientList aggregates N façade Clients for broadcast and round-robin
// addressing, grounded on p_client_list.hpp: every Client added is part of
// the total set, but only the subset explicitly Bind'd is eligible for
// Broadcast/Next — binded is always a subset of total.

package facade

import "sync"

// ClientList tracks a total set of Clients and the subset of them that are
// currently bound (i.e. have completed the bind handshake and are eligible
// for broadcast/round-robin addressing). Safe for concurrent use.
type ClientList struct {
	mu     sync.RWMutex
	total  []*Client
	binded map[*Client]bool
	cursor int
}

// NewClientList constructs an empty ClientList.
func NewClientList() *ClientList {
	return &ClientList{binded: make(map[*Client]bool)}
}

// Add installs c into the total set, unbound until Bind is called.
func (l *ClientList) Add(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = append(l.total, c)
}

// Bind marks c eligible for Broadcast/Next. c must already be in the total
// set (via Add); binding a client not yet added is a no-op.
func (l *ClientList) Bind(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.total {
		if existing == c {
			l.binded[c] = true
			return
		}
	}
}

// Unbind excludes c from Broadcast/Next without removing it from the total
// set.
func (l *ClientList) Unbind(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.binded, c)
}

// Remove drops c from both the total and binded sets.
func (l *ClientList) Remove(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.binded, c)
	for i, existing := range l.total {
		if existing == c {
			l.total = append(l.total[:i], l.total[i+1:]...)
			return
		}
	}
}

// Total returns the number of clients in the total set.
func (l *ClientList) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.total)
}

// BoundCount returns the number of clients currently bound.
func (l *ClientList) BoundCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.binded)
}

// boundLocked returns the bound subset in stable (total-set) order. Caller
// must hold l.mu for reading.
func (l *ClientList) boundLocked() []*Client {
	out := make([]*Client, 0, len(l.binded))
	for _, c := range l.total {
		if l.binded[c] {
			out = append(out, c)
		}
	}
	return out
}

// Next returns the next bound client in round-robin order, or nil if none
// are bound.
func (l *ClientList) Next() *Client {
	l.mu.Lock()
	defer l.mu.Unlock()
	bound := l.boundLocked()
	if len(bound) == 0 {
		return nil
	}
	c := bound[l.cursor%len(bound)]
	l.cursor++
	return c
}

// Broadcast fans msg out as a fire-and-forget stream_req (no
// outstanding-request tracking, unlike Client.SendRequest) to every bound
// client, returning how many sends succeeded.
func (l *ClientList) Broadcast(msg string) (sent int) {
	l.mu.RLock()
	bound := l.boundLocked()
	l.mu.RUnlock()

	for _, c := range bound {
		if _, err := c.sess.SendRequest([]byte(msg)); err == nil {
			sent++
		}
	}
	return sent
}
