package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/d-velop/dvelop-sdk-go/internal/follow"
	"github.com/d-velop/dvelop-sdk-go/internal/shardqueue"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
)

// newDoer wires a transport with link following against a test server.
func newDoer(t *testing.T, h http.HandlerFunc) Doer {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tr, err := transport.New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	tr.Use(follow.New(tr.Do).Intercept)
	return tr.Do
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/hal+json")
	_, _ = fmt.Fprint(w, body)
}

// mockExec records submitted shards and runs jobs inline.
type mockExec struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockExec) Submit(ctx context.Context, shard string, job shardqueue.Job) error {
	m.mu.Lock()
	m.calls = append(m.calls, shard)
	m.mu.Unlock()
	return job.Run(ctx)
}

// failingExec always rejects Submit.
type failingExec struct{}

func (failingExec) Submit(context.Context, string, shardqueue.Job) error {
	return shardqueue.ErrQueueFull
}
