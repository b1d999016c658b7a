package buffer

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-ws/fake"
)

func newTestFlat(capacity int) *Flat {
	return NewFlat(fake.NewBufferPool(), capacity, -1)
}

func TestFlatPrepareCommitConsume(t *testing.T) {
	f := newTestFlat(16)
	defer f.Release()

	dst, compacted, err := f.Prepare(5)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if compacted {
		t.Fatal("expected no compaction on first Prepare")
	}
	copy(dst, "hello")
	f.Commit(5)

	if f.Size() != 5 {
		t.Fatalf("expected size 5, got %d", f.Size())
	}
	if !bytes.Equal(f.Bytes(), []byte("hello")) {
		t.Fatalf("expected 'hello', got %q", f.Bytes())
	}

	f.Consume(2)
	if !bytes.Equal(f.Bytes(), []byte("llo")) {
		t.Fatalf("expected 'llo', got %q", f.Bytes())
	}
}

func TestFlatConsumeAll(t *testing.T) {
	f := newTestFlat(16)
	defer f.Release()

	dst, _, _ := f.Prepare(4)
	copy(dst, "data")
	f.Commit(4)

	f.Consume(100) // more than available
	if !f.Empty() {
		t.Fatal("expected buffer to be empty after over-consuming")
	}
	if f.Size() != 0 {
		t.Fatalf("expected size 0, got %d", f.Size())
	}
}

func TestFlatCompaction(t *testing.T) {
	f := newTestFlat(8)
	defer f.Release()

	dst, compacted, err := f.Prepare(6)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if compacted {
		t.Fatal("expected no compaction when there's room at the tail")
	}
	copy(dst, "abcdef")
	f.Commit(6)

	f.Consume(4) // unread window is now "ef", in=4, out=6

	// Requesting more room than remains at the tail (8-6=2 < 4) but the
	// buffer overall has room (8 - size(2) = 6 >= 4) forces a compaction.
	dst, compacted, err = f.Prepare(4)
	if err != nil {
		t.Fatalf("Prepare after compaction: %v", err)
	}
	if !compacted {
		t.Fatal("expected Prepare to report a compaction")
	}
	copy(dst, "ghij")
	f.Commit(4)

	if !bytes.Equal(f.Bytes(), []byte("efghij")) {
		t.Fatalf("expected 'efghij' after compaction, got %q", f.Bytes())
	}
}

func TestFlatOverflow(t *testing.T) {
	f := newTestFlat(4)
	defer f.Release()

	if _, _, err := f.Prepare(5); err == nil {
		t.Fatal("expected overflow error when requesting more than capacity")
	}
}

func TestFlatPartialCommit(t *testing.T) {
	f := newTestFlat(16)
	defer f.Release()

	dst, _, _ := f.Prepare(10)
	copy(dst, "0123456789")
	f.Commit(3) // caller only actually wrote 3 bytes worth

	if f.Size() != 3 {
		t.Fatalf("expected size 3 after partial commit, got %d", f.Size())
	}
}
