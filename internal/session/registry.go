package session

import (
	"sync"

	"msme-intel/internal/domain"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSessions = 1024

// Session owns one conversation's bounded history. All access goes through
// the session's lock so two in-flight queries on the same session never
// read or mutate the history concurrently.
type Session struct {
	id      string
	mu      sync.Mutex
	history *domain.ConversationHistory
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the last n turns as they stood when called. Queries read
// history exactly once, at classification time, through this snapshot.
func (s *Session) Snapshot(n int) []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Recent(n)
}

// Complete appends a finished turn. Appends land in completion order: a
// slower earlier query may append after a faster later one, which is fine
// because each query already took its snapshot up front.
func (s *Session) Complete(turn domain.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Append(turn)
}

// Clear empties the session's history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

// Len reports the number of stored turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// Registry hands out sessions keyed by explicit identifier. Live sessions
// are bounded by an LRU so long-running processes shed idle conversations
// instead of growing without limit.
type Registry struct {
	mu              sync.Mutex
	sessions        *lru.Cache[string, *Session]
	historyCapacity int
}

// NewRegistry creates a registry keeping at most maxSessions live sessions,
// each with the given history capacity.
func NewRegistry(maxSessions, historyCapacity int) (*Registry, error) {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	cache, err := lru.New[string, *Session](maxSessions)
	if err != nil {
		return nil, err
	}
	return &Registry{
		sessions:        cache,
		historyCapacity: historyCapacity,
	}, nil
}

// GetOrCreate returns the session for id, creating it on first use. An
// empty id allocates a fresh session with a generated identifier.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if existing, ok := r.sessions.Get(id); ok {
		return existing
	}
	created := &Session{
		id:      id,
		history: domain.NewConversationHistory(r.historyCapacity),
	}
	r.sessions.Add(id, created)
	return created
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}
