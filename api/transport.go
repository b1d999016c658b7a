// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines transport socket abstraction (NetConn) for compatibility
// with custom event loops, memory pools, and zero-copy pipelines.

package api


// NetConn abstracts a full-duplex network connection object
// that may or may not be backed by Go's net.Conn
type NetConn interface {
	// Read reads into a preallocated buffer
	Read(p []byte) (n int, err error)

	// Write writes buffer contents into the connection
	Write(p []byte) (n int, err error)

	// Close shuts down the connection and notifies upstream layers
	Close() error

	// RawFD returns the underlying OS-level file descriptor
	RawFD() uintptr
}

// TransportFeatures describes the capabilities a Transport implementation offers.
type TransportFeatures struct {
	ZeroCopy     bool
	Batch        bool
	NUMAAware    bool
	LockFree     bool
	SharedMemory bool
	OS           []string
}

// Transport is a batch-oriented, zero-copy-capable I/O abstraction sitting
// above NetConn that sends and receives slices of raw frames rather than a
// single stream. The client and server drivers do not use it; they read and
// write a net.Conn through session.Session.
type Transport interface {
	// Send writes each buffer in order. Ownership stays with the caller.
	Send(buffers [][]byte) error

	// Recv returns whatever buffers are currently available.
	Recv() ([][]byte, error)

	// Close shuts the transport down; idempotent.
	Close() error

	// Features reports what this transport supports.
	Features() TransportFeatures
}
