package store

import (
	"github.com/virtualdeck/pass-play-be/internal/db"
	"github.com/virtualdeck/pass-play-be/internal/game"
)

// PersistentStore keeps live sessions in memory and mirrors every save as
// a JSON snapshot in the database. Sessions hold mutexes and collaborator
// references, so the in-memory copy stays authoritative; the snapshots are
// for crash inspection and history, not for rehydrating live objects.
type PersistentStore struct {
	mem *MemoryStore
	db  *db.Database
}

// NewPersistentStore creates a store backed by both memory and the database.
func NewPersistentStore(database *db.Database) *PersistentStore {
	return &PersistentStore{
		mem: NewMemoryStore(),
		db:  database,
	}
}

// SaveSession saves a session and writes its snapshot through.
func (s *PersistentStore) SaveSession(sess *game.Session) error {
	if err := s.mem.SaveSession(sess); err != nil {
		return err
	}
	return s.db.SaveSessionSnapshot(sess)
}

// GetSession retrieves a live session by ID.
func (s *PersistentStore) GetSession(id string) (*game.Session, error) {
	return s.mem.GetSession(id)
}

// DeleteSession removes a session from memory and its snapshot from the
// database.
func (s *PersistentStore) DeleteSession(id string) error {
	if err := s.mem.DeleteSession(id); err != nil {
		return err
	}
	return s.db.DeleteSession(id)
}

// GetAllSessions returns all live sessions.
func (s *PersistentStore) GetAllSessions() ([]*game.Session, error) {
	return s.mem.GetAllSessions()
}
