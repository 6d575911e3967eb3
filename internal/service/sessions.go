package service

import (
	"errors"
	"sync"

	"ordergrid/internal/grid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the live grid sessions. Sessions are in-memory and
// bounded by the server's lifetime; the persistent record of an order is
// whatever the save endpoint accepted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*grid.Session
	depth    int
}

func NewSessionStore(historyDepth int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*grid.Session),
		depth:    historyDepth,
	}
}

// Create starts a new session owned by the given user.
func (s *SessionStore) Create(owner string) *grid.Session {
	sess := grid.NewSession(owner, s.depth)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session when it exists and belongs to owner. A session
// owned by someone else is reported as not found.
func (s *SessionStore) Get(id, owner string) (*grid.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.Owner != owner {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Lookup returns a session by id regardless of owner, for the estimation
// worker delivering completions.
func (s *SessionStore) Lookup(id string) (*grid.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}
