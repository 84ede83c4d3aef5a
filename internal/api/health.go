package api

import (
	"context"
	"net/http"

	"github.com/hearthside/carekb/internal/log"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ready  func(context.Context) error
	logger log.Logger
}

// NewHealthHandler creates a new health handler. ready reports whether the
// service's dependencies (AWS config, knowledge-base identifiers) are usable.
func NewHealthHandler(ready func(context.Context) error, logger log.Logger) *HealthHandler {
	return &HealthHandler{ready: ready, logger: logger}
}

// RegisterRoutes registers health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

// liveness returns 200 OK if the process is alive.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns 200 OK if all dependencies are ready.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		http.Error(w, "readiness check not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.ready(r.Context()); err != nil {
		h.logger.Error("readiness check failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
