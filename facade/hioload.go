// File: facade/hioload.go
// Unified facade layer for hioload-ws library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// HioloadWS aggregates the pieces a running server needs behind one
// facade: a NUMA-aware executor (exposed through Submit and
// SessionExecutor), CPU/NUMA affinity and dynamic Control, and the
// server.Server itself, which owns the listener and session registry.
// Sessions accepted by that server are created with the default
// DirectExecutor, not the shared executor. Config stays immutable per run
// except through Control's hot-reload path.

package facade

import (
	"fmt"
	"log"
	"sync"

	"github.com/momentics/hioload-ws/adapters"
	"github.com/momentics/hioload-ws/api"
	"github.com/momentics/hioload-ws/internal/concurrency"
	"github.com/momentics/hioload-ws/server"
	"github.com/momentics/hioload-ws/session"
)

// Config holds parameters immutable per run. All fields influence the
// initialization of internal components and cannot be changed at runtime
// except via the Control interface which triggers hot-reload.
type Config struct {
	ListenAddr        string // TCP address for the session listener
	NumWorkers        int    // Number of executor worker goroutines
	NUMANode          int    // Preferred NUMA node for buffer pools and executors
	SessionShards     int    // Number of shards for the session registry
	EnableMetrics     bool   // Whether to enable metrics collection
	CPUAffinity       bool   // Whether to pin threads to CPUs/NUMA nodes
	HeartbeatInterval int64  // Interval for heartbeat sweeps, in nanoseconds
	ShutdownTimeout   int64  // Timeout for graceful shutdown, in nanoseconds
	Session           session.Config
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		NumWorkers:        4,
		NUMANode:          -1,
		SessionShards:     16,
		EnableMetrics:     true,
		CPUAffinity:       true,
		HeartbeatInterval: 10 * 1e9,
		ShutdownTimeout:   60 * 1e9,
		Session:           session.DefaultConfig(),
	}
}

// HioloadWS is the main facade type. It implements api.GracefulShutdown.
type HioloadWS struct {
	affinity api.Affinity          // CPU/NUMA pinning manager
	control  api.Control           // Dynamic config and metrics interface
	executor *concurrency.Executor // NUMA-aware executor with per-worker queues
	srv      *server.Server

	config  *Config
	mu      sync.RWMutex
	started bool
}

var _ api.GracefulShutdown = (*HioloadWS)(nil)

// executorAdapter makes concurrency.Executor satisfy session.Executor, so
// a session constructed with it (see SessionExecutor) has its handler
// callbacks dispatched onto the facade's shared NUMA-aware worker pool.
type executorAdapter struct {
	e *concurrency.Executor
}

func (a executorAdapter) Dispatch(fn func()) {
	if err := a.e.Submit(fn); err != nil {
		// The pool's backlog is bounded; fall back to running inline
		// rather than dropping the callback.
		fn()
	}
}

func (a executorAdapter) Close() {}

// New constructs HioloadWS with the given configuration: it initializes
// control and affinity adapters, the shared executor, and
// the underlying server.Server (which does not start listening until
// Start is called).
func New(cfg *Config) (*HioloadWS, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := &HioloadWS{config: cfg}

	h.control = adapters.NewControlAdapter()
	h.affinity = adapters.NewAffinityAdapter()
	h.executor = concurrency.NewExecutor(cfg.NumWorkers, cfg.NUMANode)

	srvCfg := server.DefaultConfig()
	srvCfg.ListenAddr = cfg.ListenAddr
	srvCfg.NUMANode = cfg.NUMANode
	srvCfg.SessionShards = cfg.SessionShards
	srvCfg.Session = cfg.Session

	srv, err := server.NewServer(srvCfg)
	if err != nil {
		return nil, fmt.Errorf("server init failure: %w", err)
	}
	h.srv = srv

	h.control.SetConfig(map[string]any{
		"listen_addr":        cfg.ListenAddr,
		"heartbeat_interval": cfg.HeartbeatInterval,
		"shutdown_timeout":   cfg.ShutdownTimeout,
	})

	return h, nil
}

// Start pins threads according to CPUAffinity, enables metrics if
// configured, and begins accepting connections with handler. Subsequent
// calls to Start() have no effect.
func (h *HioloadWS) Start(handler session.Handler) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return nil
	}
	if h.config.CPUAffinity && h.config.NUMANode >= 0 {
		if err := h.affinity.Pin(-1, h.config.NUMANode); err != nil {
			log.Printf("[facade] CPU affinity warning: %v", err)
		}
	}
	if h.config.EnableMetrics {
		h.control.SetConfig(map[string]any{"metrics.enabled": true})
	}

	go func() {
		if err := h.srv.Serve(handler); err != nil {
			log.Printf("[facade] server exited: %v", err)
		}
	}()

	h.started = true
	return nil
}

// Stop unbinds every live session, closes the listener, and releases the
// executor's goroutines. Calling Stop() on a non-started facade is a
// no-op.
func (h *HioloadWS) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.started {
		return nil
	}
	h.srv.Shutdown()
	h.executor.Close()
	h.affinity.Unpin()
	h.started = false
	return nil
}

// Shutdown implements api.GracefulShutdown by delegating to Stop().
func (h *HioloadWS) Shutdown() error {
	return h.Stop()
}

// GetControl returns the Control interface for dynamic config and metrics.
func (h *HioloadWS) GetControl() api.Control {
	return h.control
}

// GetBufferPool returns the NUMA-aware buffer pool backing accepted
// sessions.
func (h *HioloadWS) GetBufferPool() api.BufferPool {
	return h.srv.GetBufferPool()
}

// Submit dispatches a task to the shared executor pool for asynchronous
// execution, outside of any particular session.
func (h *HioloadWS) Submit(task func()) error {
	return h.executor.Submit(task)
}

// SessionExecutor returns a session.Executor that dispatches onto the
// facade's shared NUMA-aware worker pool, suitable for passing to
// session.NewSession.
func (h *HioloadWS) SessionExecutor() session.Executor {
	return executorAdapter{h.executor}
}

// GetSessionCount returns the total number of active sessions.
func (h *HioloadWS) GetSessionCount() int {
	return h.srv.Sessions().Count()
}

// Server exposes the underlying server.Server for direct access to its
// session registry and bound address.
func (h *HioloadWS) Server() *server.Server {
	return h.srv
}
