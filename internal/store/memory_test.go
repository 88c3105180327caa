package store

import (
	"errors"
	"testing"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()

	players := []*game.Player{
		game.NewPlayer("Alice", "", ""),
		game.NewPlayer("Bob", "", ""),
	}
	s, err := game.NewSession(players, game.DeckConfig{NumberOfDecks: 1}, game.SessionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndGetSession(t *testing.T) {
	store := NewMemoryStore()
	sess := newSession(t)

	if err := store.SaveSession(sess); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetSession(sess.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if got != sess {
		t.Fatal("store must hand back the same session instance")
	}
}

func TestGetMissingSession(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.GetSession("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSession(t *testing.T) {
	store := NewMemoryStore()
	sess := newSession(t)
	store.SaveSession(sess)

	if err := store.DeleteSession(sess.ID.String()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetSession(sess.ID.String()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("deleted session must be gone")
	}
	if err := store.DeleteSession(sess.ID.String()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("deleting twice must report absence")
	}
}

func TestGetAllSessions(t *testing.T) {
	store := NewMemoryStore()
	a := newSession(t)
	b := newSession(t)
	store.SaveSession(a)
	store.SaveSession(b)

	all, err := store.GetAllSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d sessions, want 2", len(all))
	}
}
