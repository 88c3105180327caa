package store

import "github.com/virtualdeck/pass-play-be/internal/game"

// Store defines the interface for session storage.
type Store interface {
	// SaveSession saves a session to the store
	SaveSession(s *game.Session) error

	// GetSession retrieves a session by ID
	GetSession(id string) (*game.Session, error)

	// DeleteSession removes a session from the store
	DeleteSession(id string) error

	// GetAllSessions returns all sessions in the store
	GetAllSessions() ([]*game.Session, error)
}
