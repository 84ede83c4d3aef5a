package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/log"
)

// ChatHandler handles the conversational chat endpoint.
//
// Status convention: a missing message is the caller's fault (400); a turn
// that ends with no displayable answer is a server-side failure (500) and
// the backend classification travels in the error payload.
type ChatHandler struct {
	service *chatbot.Service
	logger  log.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *chatbot.Service, logger log.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatbot.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "MISSING_MESSAGE", "message is required")
		return
	}

	resp := h.service.Chat(r.Context(), req)
	if resp.Answer == "" {
		h.logger.Error("chat turn failed", "backend", resp.Backend, "error", resp.Error)
		writeError(w, h.logger, http.StatusInternalServerError, string(resp.Backend), resp.Error)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
