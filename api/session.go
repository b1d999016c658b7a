// File: api/session.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Session and SessionManager are the capability sets the facade and drivers
// bind to, independent of the concrete session implementation.

package api

// SessionState names the three states a session's framing layer can be in.
type SessionState int

const (
	SessionOpen SessionState = iota
	SessionUnbinding
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionUnbinding:
		return "unbinding"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SessionMetricsSnapshot is a point-in-time, non-atomic copy of a session's
// counters, safe to pass around after it is taken.
type SessionMetricsSnapshot struct {
	BytesSent         uint64
	BytesReceived     uint64
	MessagesSent      uint64
	MessagesReceived  uint64
	Errors            uint64
	BufferCompactions uint64
	IsClosed          bool
}

// Session is the capability set exposed by the session engine: send a
// request or response, unbind gracefully, close immediately, inspect state
// and metrics. Concrete type is *session.Session; consumers (façade,
// session manager) only ever see this interface.
type Session interface {
	// ID identifies this session within its owning manager, if any.
	ID() uint64

	// SendRequest serializes body as a stream_req and returns its sequence
	// number. Only valid in SessionOpen.
	SendRequest(body []byte) (uint32, error)

	// SendResponse serializes body as a stream_resp echoing seq.
	SendResponse(seq uint32, body []byte, ok bool) error

	// Unbind begins the graceful shutdown handshake.
	Unbind() error

	// Close tears the session down immediately with an optional reason.
	Close(reason string)

	// State reports the session's current framing-layer state.
	State() SessionState

	// Metrics returns a snapshot of this session's counters.
	Metrics() SessionMetricsSnapshot
}

// SessionManager is the capability set for a registry of live sessions.
type SessionManager interface {
	// Add installs a session under a manager-assigned id and wires a
	// close-hook that removes it from the map on close.
	Add(s Session) uint64

	// Get retrieves a session by id.
	Get(id uint64) (Session, bool)

	// Remove drops a session from the map, idempotently.
	Remove(id uint64)

	// Range invokes fn for a snapshot of the live sessions.
	Range(fn func(id uint64, s Session))

	// CloseAll initiates graceful unbind on every live session.
	CloseAll()

	// CloseAllImmediate closes every live session without the handshake.
	CloseAllImmediate()

	// Count returns the number of sessions currently registered.
	Count() int
}
