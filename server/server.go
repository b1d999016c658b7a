// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"net"

	"github.com/momentics/hioload-ws/adapters"
	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/pool"
	"github.com/momentics/hioload-ws/session"
	"github.com/momentics/hioload-ws/sessionmgr"
)

var ErrAlreadyRunning = errors.New("server already running")

// NewServer builds the Server façade: a TCP listener, a NUMA-aware buffer
// pool, and an empty session registry. Accepting connections and routing
// their bind/stream traffic only starts once Serve is called.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctrl := adapters.NewControlAdapter()
	bufPool := pool.NewBufferPoolManager().GetPool(cfg.NUMANode)

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		pool:       bufPool,
		control:    ctrl,
		listener:   ln,
		sessions:   sessionmgr.NewManager(cfg.SessionShards),
		shutdownCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Serve accepts connections until Shutdown is called, wrapping each one in
// a session.Session driven by handler (decorated by any registered
// middleware) and registering it with the server's session registry.
func (s *Server) Serve(handler session.Handler) error {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdownCh:
				return nil
			default:
				continue
			}
		}

		sess := session.NewSession(conn, s.cfg.Session, s.pool, handler, nil)
		s.sessions.Add(sess)
		sess.Start()
	}
}

// Shutdown stops accepting new connections and starts a graceful unbind on
// every live session. It returns without waiting for those sessions to
// close; Config.ShutdownTimeout is not read.
func (s *Server) Shutdown() error {
	close(s.shutdownCh)
	err := s.listener.Close()
	s.sessions.CloseAll()
	return err
}

// Sessions exposes the server's session registry, e.g. for broadcasting.
func (s *Server) Sessions() *sessionmgr.Manager {
	return s.sessions
}

// Addr returns the listener's bound address, useful when ListenAddr uses
// port 0 and the caller needs the actual assigned port.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// GetControl exposes runtime metrics and debug control.
func (s *Server) GetControl() api.Control {
	return s.control
}

// GetBufferPool returns the server's NUMA-aware buffer pool.
func (s *Server) GetBufferPool() api.BufferPool {
	return s.pool
}
