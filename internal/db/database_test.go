package db

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	d, err := New("sqlite3", ":memory:", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func newTestSession(t *testing.T) *game.Session {
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

func TestUnsupportedDriver(t *testing.T) {
	if _, err := New("mysql", "dsn", zerolog.Nop()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	d := newTestDB(t)

	if _, err := d.GetSetting("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := d.SetSetting("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if v, err := d.GetSetting("theme"); err != nil || v != "dark" {
		t.Fatalf("got (%q, %v), want (dark, nil)", v, err)
	}

	// Upsert overwrites.
	if err := d.SetSetting("theme", "light"); err != nil {
		t.Fatal(err)
	}
	if v, _ := d.GetSetting("theme"); v != "light" {
		t.Fatalf("got %q after upsert, want light", v)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	d := newTestDB(t)

	prefs, err := d.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if !prefs.SoundEnabled || !prefs.HapticsEnabled || prefs.Volume != 0.7 {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	d := newTestDB(t)

	want := Preferences{SoundEnabled: false, HapticsEnabled: true, Volume: 0.25}
	if err := d.SavePreferences(want); err != nil {
		t.Fatal(err)
	}

	got, err := d.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	d := newTestDB(t)
	sess := newTestSession(t)

	if err := d.SaveSessionSnapshot(sess); err != nil {
		t.Fatal(err)
	}

	raw, err := d.SessionSnapshot(sess.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}

	// Saving again must update, not duplicate.
	sess.DealCards(5)
	if err := d.SaveSessionSnapshot(sess); err != nil {
		t.Fatal(err)
	}

	if err := d.DeleteSession(sess.ID.String()); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SessionSnapshot(sess.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGameResults(t *testing.T) {
	d := newTestDB(t)

	if err := d.SaveGameResult("s1", "p1", "Alice", 21); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveGameResult("s1", "p2", "Bob", 18); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveGameResult("s2", "p1", "Alice", 3); err != nil {
		t.Fatal(err)
	}

	results, err := d.ResultsForSession("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].PlayerName != "Alice" || results[0].Score != 21 {
		t.Fatalf("results must be ordered by score, got %+v", results[0])
	}
}

func TestRebind(t *testing.T) {
	d := &Database{driver: "postgres"}
	got := d.rebind("SELECT value FROM settings WHERE key = ? AND value = ?")
	want := "SELECT value FROM settings WHERE key = $1 AND value = $2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	d.driver = "sqlite3"
	q := "DELETE FROM sessions WHERE id = ?"
	if d.rebind(q) != q {
		t.Fatal("sqlite queries must pass through unchanged")
	}
}
