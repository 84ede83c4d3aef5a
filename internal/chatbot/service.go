// Package chatbot wires the conversation core together: memory-instruction
// parsing, history, context assembly, the retrieval gateway, and the
// human-readability pass.
//
// Control flow for one chat turn:
//
//	message -> memory parser (short-circuits on match)
//	        -> store.Read -> prompt.Build -> gateway.Answer
//	        -> formatter.Humanize (second gateway call)
//	        -> store.Append (user + assistant) -> response
package chatbot

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthside/carekb/internal/conversation"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/observability"
	"github.com/hearthside/carekb/internal/prompt"
	"github.com/hearthside/carekb/internal/retrieval"
)

// DefaultUserID stands in when the caller sends no user identity.
const DefaultUserID = "demo_user"

// Gateway is the retrieval-and-generation dependency.
type Gateway interface {
	Answer(ctx context.Context, question string) retrieval.Result
}

// Humanizer is the second-pass formatting dependency.
type Humanizer interface {
	Humanize(ctx context.Context, draft string, sources []retrieval.Source) string
}

// Service is the conversational question-answering core.
type Service struct {
	gateway         Gateway
	store           *conversation.Store
	formatter       Humanizer
	logger          log.Logger
	metrics         *observability.Metrics
	maxContextChars int
}

// New creates the service. metrics may be nil.
func New(gateway Gateway, store *conversation.Store, formatter Humanizer, logger log.Logger, metrics *observability.Metrics, maxContextChars int) *Service {
	if maxContextChars <= 0 {
		maxContextChars = prompt.DefaultMaxChars
	}
	return &Service{
		gateway:         gateway,
		store:           store,
		formatter:       formatter,
		logger:          logger,
		metrics:         metrics,
		maxContextChars: maxContextChars,
	}
}

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// ChatResponse is the outcome of one chat turn. Answer is the only field
// meant for direct display; Error exists for debugging.
type ChatResponse struct {
	Answer         string             `json:"answer"`
	Sources        []retrieval.Source `json:"sources"`
	Backend        retrieval.Backend  `json:"backend"`
	ConversationID string             `json:"conversation_id"`
	Error          string             `json:"error,omitempty"`
}

// Chat runs one conversational turn.
//
// Turns are recorded only after the gateway returns: on success the
// user+assistant pair, on failure the user turn plus an error-marker
// assistant turn.
func (s *Service) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	message := strings.TrimSpace(req.Message)

	if message == "" {
		// Classified by the gateway; no turn is recorded.
		result := s.gateway.Answer(ctx, "")
		return s.respond(conversationID, "", result)
	}

	// An explicit memory instruction bypasses retrieval entirely.
	if fact := conversation.ExtractMemoryInstruction(message); fact != "" {
		s.store.Append(userID, conversationID, conversation.RoleUser, message)
		s.store.Append(userID, conversationID, conversation.RoleMemory, fact)
		s.observeTurn("memory")
		s.logger.Info("remembered note recorded", "conversation_id", conversationID)
		return ChatResponse{
			Answer:         "Okay, I'll remember that: " + fact,
			Sources:        []retrieval.Source{},
			Backend:        retrieval.BackendMemory,
			ConversationID: conversationID,
		}
	}

	history := s.store.Read(userID, conversationID)
	assembled := prompt.Build(history, message, s.maxContextChars)
	result := s.gateway.Answer(ctx, assembled)

	if result.Backend != retrieval.BackendOK {
		s.store.Append(userID, conversationID, conversation.RoleUser, message)
		s.store.Append(userID, conversationID, conversation.RoleAssistant, "[no answer] "+result.Error)
		s.observeTurn(string(result.Backend))
		return s.respond(conversationID, "", result)
	}

	answer := s.formatter.Humanize(ctx, result.Answer, result.Sources)
	s.store.Append(userID, conversationID, conversation.RoleUser, message)
	s.store.Append(userID, conversationID, conversation.RoleAssistant, answer)
	s.observeTurn("ok")
	return s.respond(conversationID, answer, result)
}

// Query answers a one-shot concern, bypassing conversation state and
// memory entirely.
func (s *Service) Query(ctx context.Context, concern string) retrieval.Result {
	return s.gateway.Answer(ctx, concern)
}

func (s *Service) respond(conversationID, answer string, result retrieval.Result) ChatResponse {
	sources := result.Sources
	if sources == nil {
		sources = []retrieval.Source{}
	}
	return ChatResponse{
		Answer:         answer,
		Sources:        sources,
		Backend:        result.Backend,
		ConversationID: conversationID,
		Error:          result.Error,
	}
}

func (s *Service) observeTurn(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatTurns.WithLabelValues(outcome).Inc()
	}
}
