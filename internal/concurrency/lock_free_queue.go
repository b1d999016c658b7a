// File: internal/concurrency/lock_free_queue.go
// Package concurrency provides a lock-free queue for executors.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-producer, single-consumer bounded ring buffer. Each slot carries its
// own sequence number (Vyukov's MPMC ring buffer algorithm, specialized here
// to a single consumer): a producer claims a slot by CAS-ing the shared
// enqueue cursor forward, so any number of goroutines may call Enqueue
// concurrently without corrupting each other's slot or losing an entry; the
// lone consumer advances its cursor with a plain load/store since only one
// goroutine ever calls Dequeue.

package concurrency

import "sync/atomic"

type lockFreeCell[T any] struct {
	sequence atomic.Uint64
	value    T
}

// lockFreeQueue is a bounded ring buffer safe for any number of concurrent
// producers and exactly one consumer.
type lockFreeQueue[T any] struct {
	mask       uint64
	buffer     []lockFreeCell[T]
	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64
}

// NewLockFreeQueue creates a new queue with capacity rounded to power of two.
func NewLockFreeQueue[T any](capacity int) *lockFreeQueue[T] {
	size := 1
	for size < capacity {
		size <<= 1
	}
	buf := make([]lockFreeCell[T], size)
	for i := range buf {
		buf[i].sequence.Store(uint64(i))
	}
	return &lockFreeQueue[T]{mask: uint64(size - 1), buffer: buf}
}

// Enqueue adds val; returns false if full. Safe for concurrent callers.
func (q *lockFreeQueue[T]) Enqueue(val T) bool {
	pos := q.enqueuePos.Load()
	for {
		cell := &q.buffer[pos&q.mask]
		seq := cell.sequence.Load()
		diff := int64(seq) - int64(pos)
		if diff == 0 {
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				cell.value = val
				cell.sequence.Store(pos + 1)
				return true
			}
			pos = q.enqueuePos.Load()
			continue
		}
		if diff < 0 {
			return false
		}
		pos = q.enqueuePos.Load()
	}
}

// Dequeue removes and returns an item; ok false if empty. Must only be
// called from a single consumer goroutine.
func (q *lockFreeQueue[T]) Dequeue() (item T, ok bool) {
	pos := q.dequeuePos.Load()
	cell := &q.buffer[pos&q.mask]
	seq := cell.sequence.Load()
	if int64(seq)-int64(pos+1) != 0 {
		return item, false
	}
	item = cell.value
	cell.sequence.Store(pos + uint64(len(q.buffer)))
	q.dequeuePos.Store(pos + 1)
	return item, true
}
