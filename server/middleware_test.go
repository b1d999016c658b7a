package server_test

import (
	"net"
	"testing"
	"time"

	"github.com/momentics/hioload-ws/adapters"
	"github.com/momentics/hioload-ws/fake"
	"github.com/momentics/hioload-ws/server"
	"github.com/momentics/hioload-ws/session"
)

func TestMiddlewareChainWrapsBindRequest(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"

	control := adapters.NewControlAdapter()

	srv, err := server.NewServer(cfg,
		server.WithMiddleware(
			server.LoggingMiddleware,
			server.RecoveryMiddleware,
			server.MetricsMiddleware(control),
		),
	)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.Shutdown()

	h := &recordingHandler{bindReq: make(chan uint32, 1)}
	go srv.Serve(h)

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	client := session.NewSession(conn, session.DefaultConfig(), fake.NewBufferPool(), noopClientHandler{}, nil)
	client.Start()
	defer client.Close("test done")

	if _, err := client.SendBindRequest("test-client"); err != nil {
		t.Fatalf("SendBindRequest: %v", err)
	}

	select {
	case <-h.bindReq:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for base handler behind middleware chain")
	}

	stats := control.Stats()
	count, _ := stats["handler.processed"].(int64)
	if count < 1 {
		t.Errorf("handler.processed = %v, want >= 1", count)
	}
}
