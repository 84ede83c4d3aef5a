package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/retrieval"
)

// QueryHandler handles the one-shot query endpoint, which bypasses
// conversation state entirely.
type QueryHandler struct {
	service *chatbot.Service
	logger  log.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(service *chatbot.Service, logger log.Logger) *QueryHandler {
	return &QueryHandler{service: service, logger: logger}
}

// RegisterRoutes registers query routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /query", h.handleGet)
	mux.HandleFunc("POST /query", h.handlePost)
}

// QueryRequest is the POST body for a one-shot query.
type QueryRequest struct {
	Concern string `json:"concern"`
}

// QueryResponse is a one-shot answer.
type QueryResponse struct {
	Answer  string             `json:"answer"`
	Sources []retrieval.Source `json:"sources"`
	Backend retrieval.Backend  `json:"backend"`
}

func (h *QueryHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, r.URL.Query().Get("concern"))
}

func (h *QueryHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	h.respond(w, r, req.Concern)
}

func (h *QueryHandler) respond(w http.ResponseWriter, r *http.Request, concern string) {
	// A blank concern is a client error on both methods, including a GET
	// with ?concern= present but empty. The gateway never sees it.
	if strings.TrimSpace(concern) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "MISSING_CONCERN", "concern is required")
		return
	}

	result := h.service.Query(r.Context(), concern)
	if result.Answer == "" {
		h.logger.Error("query failed", "backend", result.Backend, "error", result.Error)
		writeError(w, h.logger, http.StatusInternalServerError, string(result.Backend), result.Error)
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []retrieval.Source{}
	}
	writeJSON(w, h.logger, http.StatusOK, QueryResponse{
		Answer:  result.Answer,
		Sources: sources,
		Backend: result.Backend,
	})
}
