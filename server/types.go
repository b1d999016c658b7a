// File: server/types.go
// Package server implements the listening side of the bind/stream protocol:
// accept raw TCP connections, wrap each in a session.Session, and hand the
// bind handshake and stream traffic to the caller's Handler. Grounded on the
// teacher's server.go/run.go shape (Config/Server/NewServer/Serve/Shutdown),
// adapted from an HTTP-upgrade WebSocket listener to the length-prefixed
// bind-handshake session engine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"net"
	"time"

	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/session"
	"github.com/momentics/hioload-ws/sessionmgr"
)

// Config holds all server-side configuration parameters.
type Config struct {
	ListenAddr      string        // TCP bind address, e.g. ":9000"
	NUMANode        int           // preferred NUMA node for buffer pools (-1 = auto)
	SessionShards   int           // shard count for the session registry
	ShutdownTimeout time.Duration // not read by Shutdown, which does not wait for sessions to close
	Session         session.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":9000",
		NUMANode:        -1,
		SessionShards:   16,
		ShutdownTimeout: 30 * time.Second,
		Session:         session.DefaultConfig(),
	}
}

// Server is the high-level façade encapsulating the listener, buffer pool,
// session registry, and control surface for accepted connections.
type Server struct {
	cfg        *Config
	pool       api.BufferPool
	control    api.Control
	listener   net.Listener
	sessions   *sessionmgr.Manager
	middleware []Middleware
	shutdownCh chan struct{}
}

// Middleware wraps a session.Handler to add cross-cutting behavior (logging,
// metrics, auth) around bind/stream callbacks.
type Middleware func(session.Handler) session.Handler
