package store

import (
	"errors"
	"sync"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

var ErrSessionNotFound = errors.New("session not found")

// MemoryStore is an in-memory implementation of session storage.
type MemoryStore struct {
	sessions map[string]*game.Session
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*game.Session),
	}
}

// SaveSession saves a session to the store.
func (s *MemoryStore) SaveSession(sess *game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID.String()] = sess
	return nil
}

// GetSession retrieves a session by ID.
func (s *MemoryStore) GetSession(id string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession removes a session from the store.
func (s *MemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// GetAllSessions returns all sessions in the store.
func (s *MemoryStore) GetAllSessions() ([]*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*game.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
