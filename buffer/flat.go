// File: buffer/flat.go
// Package buffer implements the session engine's compacting receive buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Flat is a single fixed-capacity byte region with three cursors — in, out,
// last — tracking the unread data window and the in-flight write reservation.
// When a write needs more room than remains at the tail, it memmoves the
// unread window back to offset 0 instead of growing. Grounded on
// detail::flat_buffer<T, N> (flat_buffer.hpp); backed here by an
// api.BufferPool-allocated region rather than a fixed std::array<T, N>
// member, since Go buffers are heap objects the pool already manages.

package buffer

import (
	"github.com/momentics/hioload-ws/api"
)

// Flat is the compacting receive buffer. Not safe for concurrent use; the
// session that owns it serializes all access onto a single executor.
type Flat struct {
	pool api.BufferPool
	buf  api.Buffer
	raw  []byte

	in, out, last int
}

// NewFlat allocates a Flat buffer of the given capacity from pool.
func NewFlat(pool api.BufferPool, capacity int, numaPreferred int) *Flat {
	buf := pool.Get(capacity, numaPreferred)
	return &Flat{
		pool: pool,
		buf:  buf,
		raw:  buf.Bytes()[:capacity],
	}
}

// Release returns the underlying buffer to its pool. The Flat must not be
// used afterward.
func (f *Flat) Release() {
	f.pool.Put(f.buf)
	f.buf = nil
	f.raw = nil
}

// Clear resets all cursors, discarding any unread data.
func (f *Flat) Clear() {
	f.in, f.out, f.last = 0, 0, 0
}

// Capacity returns the buffer's total size.
func (f *Flat) Capacity() int {
	return len(f.raw)
}

// Size returns the number of unread bytes.
func (f *Flat) Size() int {
	return f.out - f.in
}

// Available returns how many bytes remain before the buffer is full.
func (f *Flat) Available() int {
	return f.Capacity() - f.Size()
}

// Empty reports whether there's no unread data.
func (f *Flat) Empty() bool {
	return f.in == f.out
}

// Bytes returns the current unread window [in, out). The slice aliases the
// underlying buffer and is only valid until the next Consume or Prepare.
func (f *Flat) Bytes() []byte {
	return f.raw[f.in:f.out]
}

// Prepare reserves n bytes for writing at the tail of the unread window,
// compacting first if the tail doesn't have room but the buffer as a whole
// does. The returned slice aliases the underlying buffer; the caller fills
// it and calls Commit with however much it actually wrote. compacted
// reports whether this call had to memmove the unread window, so callers
// can surface it as an observable counter.
func (f *Flat) Prepare(n int) (dst []byte, compacted bool, err error) {
	if n <= len(f.raw)-f.out {
		f.last = f.out + n
		return f.raw[f.out:f.last], false, nil
	}

	size := f.Size()
	if n > f.Capacity()-size {
		return nil, false, api.ErrBufferOverflow
	}

	if size > 0 {
		copy(f.raw[0:size], f.raw[f.in:f.out])
	}
	f.in = 0
	f.out = size
	f.last = f.out + n

	return f.raw[f.out:f.last], true, nil
}

// Commit advances the write cursor by n bytes, clamped to the outstanding
// Prepare reservation.
func (f *Flat) Commit(n int) {
	room := f.last - f.out
	if n > room {
		n = room
	}
	f.out += n
}

// Consume drops n bytes from the front of the unread window. Consuming at
// least Size() bytes resets both cursors to the front of the buffer, same
// as Clear.
func (f *Flat) Consume(n int) {
	if n >= f.Size() {
		f.in = 0
		f.out = 0
		return
	}
	f.in += n
}
