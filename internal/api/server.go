// Package api exposes the caregiver knowledge-base service over HTTP.
//
// Endpoints:
//
//	POST /api/chat  - conversational question answering
//	GET  /query     - one-shot question (?concern=...)
//	POST /query     - one-shot question (JSON body)
//	GET  /health    - liveness probe
//	GET  /ready     - readiness probe
//	GET  /metrics   - Prometheus scrape endpoint
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (recovery, logging, metrics)
//   - chat.go: conversational chat endpoint
//   - query.go: one-shot query endpoint
//   - health.go: health check endpoints (/health, /ready)
//   - response.go: JSON response helpers
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/observability"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generation calls are slow, so this is generous.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the service's REST API.
type Server struct {
	mux     *http.ServeMux
	logger  log.Logger
	metrics *observability.Metrics

	// Handlers
	health *HealthHandler
	chat   *ChatHandler
	query  *QueryHandler
}

// NewServer creates a new HTTP server with all routes registered.
// metricsHandler serves the scrape endpoint and may be nil; ready reports
// whether the service's dependencies are usable.
func NewServer(service *chatbot.Service, ready func(context.Context) error, logger log.Logger, metrics *observability.Metrics, metricsHandler http.Handler) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		metrics: metrics,
		health:  NewHealthHandler(ready, logger),
		chat:    NewChatHandler(service, logger),
		query:   NewQueryHandler(service, logger),
	}

	s.health.RegisterRoutes(mux)
	s.chat.RegisterRoutes(mux)
	s.query.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → metrics → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		metricsMiddleware(s.metrics),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
