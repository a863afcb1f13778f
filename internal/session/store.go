package session

import (
	"sync"

	"github.com/jwebster45206/timequest/internal/delivery"
)

// Store owns all sessions, keyed by user id. Sessions are created on
// first use and retained for the process lifetime; there is no expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for a user, creating it on first contact.
func (st *Store) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		s = &Session{UserID: userID}
		st.sessions[userID] = s
	}
	return s
}

// Peek returns the session for a user without creating one.
func (st *Store) Peek(userID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	return s, ok
}

// LastMessage implements delivery.MessageTracker.
func (st *Store) LastMessage(userID string) (delivery.MessageRef, bool) {
	s, ok := st.Peek(userID)
	if !ok {
		return delivery.MessageRef{}, false
	}
	return s.LastMessage()
}

// SetLastMessage implements delivery.MessageTracker.
func (st *Store) SetLastMessage(userID string, ref delivery.MessageRef) {
	st.Get(userID).SetLastMessage(ref)
}
