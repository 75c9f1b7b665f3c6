// Package bot holds the per-user conversation state machine and the types
// it shares with the chat transport.
package bot

import "sync"

// State is the closed set of conversation steps a session can be in.
type State int

// Conversation states. Transitions are handled exhaustively in the machine;
// there is no default branch to fall through.
const (
	StateIdle State = iota
	StateAwaitBusinessType
	StateAwaitCity
	StateAwaitPages
	StateScraperAPIKey
	StateScraperDomain
)

// String names the state for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitBusinessType:
		return "await_business_type"
	case StateAwaitCity:
		return "await_city"
	case StateAwaitPages:
		return "await_pages"
	case StateScraperAPIKey:
		return "scraper_api_key"
	case StateScraperDomain:
		return "scraper_domain"
	}
	return "unknown"
}

// Session is one user's accumulated conversation state. Fields outside the
// active step may be stale; every transition overwrites before it reads.
type Session struct {
	UserID         int64
	State          State
	BusinessType   string
	City           string
	PageCount      int
	HunterAPIKey   string
	Domain         string
	SelectedOption string
}

// SessionStore maps user IDs to sessions. The map itself is guarded for
// insert-on-first-contact; individual sessions need no lock because the
// transport serializes event delivery per user.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for userID, creating it lazily on first contact.
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess = &Session{UserID: userID, State: StateIdle}
	s.sessions[userID] = sess
	return sess
}

// Len reports how many sessions exist.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
