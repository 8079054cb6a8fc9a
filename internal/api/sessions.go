package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	expiresAt time.Time
	userID    int64
}

// SessionStore keeps bearer tokens in memory. Tokens do not survive a
// restart; clients simply log in again.
type SessionStore struct {
	now      func() time.Time
	sessions map[string]session
	ttl      time.Duration
	mu       sync.Mutex
}

// NewSessionStore creates a store whose tokens live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a token for userID.
func (s *SessionStore) Create(userID int64) (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)
	s.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return token, expiresAt
}

// Lookup returns the user behind token. Expired tokens are dropped.
func (s *SessionStore) Lookup(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.userID, true
}

// Revoke removes a token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Prune drops every expired session and returns how many were removed.
func (s *SessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
