package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/conversation"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/observability"
	"github.com/hearthside/carekb/internal/retrieval"
)

// scriptedGateway returns canned results in order, repeating the last one.
type scriptedGateway struct {
	results []retrieval.Result
	calls   int
}

func (g *scriptedGateway) Answer(_ context.Context, _ string) retrieval.Result {
	i := g.calls
	if i >= len(g.results) {
		i = len(g.results) - 1
	}
	g.calls++
	return g.results[i]
}

type passthroughFormatter struct{}

func (passthroughFormatter) Humanize(_ context.Context, draft string, _ []retrieval.Source) string {
	return draft
}

func newTestServer(results ...retrieval.Result) *Server {
	logger := log.NewNop()
	store := conversation.NewStore(conversation.DefaultCapacity, time.Hour)
	svc := chatbot.New(&scriptedGateway{results: results}, store, passthroughFormatter{}, logger, nil, 0)
	return NewServer(svc, func(context.Context) error { return nil }, logger, nil, nil)
}

func TestServer_HealthEndpoints(t *testing.T) {
	srv := newTestServer(retrieval.Result{Answer: "ok", Backend: retrieval.BackendOK})
	handler := srv.Handler()

	t.Run("GET /health returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("GET /ready returns 503 when dependencies fail", func(t *testing.T) {
		logger := log.NewNop()
		store := conversation.NewStore(conversation.DefaultCapacity, time.Hour)
		svc := chatbot.New(&scriptedGateway{results: []retrieval.Result{{}}}, store, passthroughFormatter{}, logger, nil, 0)
		failing := NewServer(svc, func(context.Context) error { return errors.New("no region") }, logger, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()

		failing.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_MetricsEndpoint(t *testing.T) {
	logger := log.NewNop()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("carekb", reg)
	store := conversation.NewStore(conversation.DefaultCapacity, time.Hour)
	svc := chatbot.New(&scriptedGateway{results: []retrieval.Result{{Answer: "ok", Backend: retrieval.BackendOK}}},
		store, passthroughFormatter{}, logger, metrics, 0)
	srv := NewServer(svc, func(context.Context) error { return nil }, logger, metrics, observability.Handler(reg))
	handler := srv.Handler()

	// A scraped request should show up in the request counter.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	scrape := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, scrape)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carekb_http_requests_total")
}

func TestServer_Run_GracefulShutdown(t *testing.T) {
	srv := newTestServer(retrieval.Result{Answer: "ok", Backend: retrieval.BackendOK})

	// Grab a free port so the test does not collide with other listeners.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, addr) }()

	// Give the listener a moment, then shut down.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
