// Package conversation holds the per-(user, conversation) turn history.
//
// State is process-local and intentionally ephemeral: a restart loses all
// history and remembered notes. Histories are bounded FIFO rings and idle
// conversations are purged lazily on read once their TTL passes.
package conversation

import (
	"sync"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	// RoleUser is a message typed by the user.
	RoleUser Role = "user"

	// RoleAssistant is a generated answer (or an error marker).
	RoleAssistant Role = "assistant"

	// RoleMemory is a remembered note. Memory turns never appear in the
	// rendered transcript but always feed the remembered-notes block.
	RoleMemory Role = "memory"
)

const (
	// DefaultCapacity is the per-conversation turn limit.
	DefaultCapacity = 12

	// DefaultTTL is how long an idle conversation survives.
	DefaultTTL = 6 * time.Hour
)

// Turn is one immutable message unit in a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type key struct {
	userID         string
	conversationID string
}

type history struct {
	turns        []Turn
	lastActivity time.Time
}

// Store is the only shared mutable state in the service. A single coarse
// lock serializes all access; correctness matters more than throughput at
// the expected load.
type Store struct {
	mu            sync.Mutex
	capacity      int
	ttl           time.Duration
	now           func() time.Time
	conversations map[key]*history
}

// NewStore creates an empty store. Non-positive capacity or TTL fall back
// to the defaults.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		capacity:      capacity,
		ttl:           ttl,
		now:           time.Now,
		conversations: make(map[key]*history),
	}
}

// Append records a turn with the current timestamp, evicting the oldest
// turn once the history is full, and refreshes the conversation's activity.
func (s *Store) Append(userID, conversationID string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{userID: userID, conversationID: conversationID}
	h, ok := s.conversations[k]
	if !ok {
		h = &history{}
		s.conversations[k] = h
	}

	now := s.now()
	h.turns = append(h.turns, Turn{Role: role, Content: content, CreatedAt: now})
	if len(h.turns) > s.capacity {
		h.turns = append(h.turns[:0], h.turns[len(h.turns)-s.capacity:]...)
	}
	h.lastActivity = now
}

// Read sweeps expired conversations, then returns a snapshot of the
// history for the key. A missing or just-purged key yields an empty slice.
func (s *Store) Read(userID, conversationID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	h, ok := s.conversations[key{userID: userID, conversationID: conversationID}]
	if !ok {
		return []Turn{}
	}
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports how many live conversations the store holds. Diagnostics only.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// sweepLocked purges every conversation whose last activity is stale.
// O(total keys) per read is fine at dev/demo scale.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for k, h := range s.conversations {
		if h.lastActivity.Before(cutoff) {
			delete(s.conversations, k)
		}
	}
}
