// Package db persists what outlives a process: user preferences, session
// snapshots, and finished-game results. The server runs fine without it.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

var ErrNotFound = errors.New("not found")

type Database struct {
	db     *sql.DB
	driver string
	log    zerolog.Logger
}

// Preferences are the simple key-value user settings the apps persist.
type Preferences struct {
	SoundEnabled   bool    `json:"soundEnabled"`
	HapticsEnabled bool    `json:"hapticsEnabled"`
	Volume         float64 `json:"volume"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() Preferences {
	return Preferences{SoundEnabled: true, HapticsEnabled: true, Volume: 0.7}
}

// GameResult is one player's final score for one finished session.
type GameResult struct {
	SessionID  string    `json:"sessionId"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
}

// New opens a database connection. driver is "sqlite3" or "postgres".
func New(driver, dsn string, log zerolog.Logger) (*Database, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	d := &Database{db: conn, driver: driver, log: log}
	if err := d.initTables(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (d *Database) rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *Database) resultsPrimaryKey() string {
	if d.driver == "postgres" {
		return "SERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initTables creates the necessary tables if they don't exist.
func (d *Database) initTables() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating settings table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			in_progress BOOLEAN NOT NULL,
			state TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating sessions table: %w", err)
	}

	_, err = d.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS game_results (
			id %s,
			session_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`, d.resultsPrimaryKey()))
	if err != nil {
		return fmt.Errorf("error creating game_results table: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// GetSetting retrieves a setting value by key.
func (d *Database) GetSetting(key string) (string, error) {
	var value string
	err := d.db.QueryRow(d.rebind("SELECT value FROM settings WHERE key = ?"), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates or inserts a setting.
func (d *Database) SetSetting(key, value string) error {
	_, err := d.db.Exec(d.rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`), key, value)
	return err
}

// Preferences reads the persisted user preferences, falling back to
// defaults for anything unset.
func (d *Database) Preferences() (Preferences, error) {
	prefs := DefaultPreferences()

	if v, err := d.GetSetting("sound_enabled"); err == nil {
		prefs.SoundEnabled = v == "true"
	} else if !errors.Is(err, ErrNotFound) {
		return prefs, err
	}
	if v, err := d.GetSetting("haptics_enabled"); err == nil {
		prefs.HapticsEnabled = v == "true"
	} else if !errors.Is(err, ErrNotFound) {
		return prefs, err
	}
	if v, err := d.GetSetting("volume"); err == nil {
		if parsed, perr := strconv.ParseFloat(v, 64); perr == nil {
			prefs.Volume = parsed
		}
	} else if !errors.Is(err, ErrNotFound) {
		return prefs, err
	}

	return prefs, nil
}

// SavePreferences persists the user preferences.
func (d *Database) SavePreferences(prefs Preferences) error {
	if err := d.SetSetting("sound_enabled", strconv.FormatBool(prefs.SoundEnabled)); err != nil {
		return err
	}
	if err := d.SetSetting("haptics_enabled", strconv.FormatBool(prefs.HapticsEnabled)); err != nil {
		return err
	}
	return d.SetSetting("volume", strconv.FormatFloat(prefs.Volume, 'f', -1, 64))
}

// SaveSessionSnapshot upserts the full serialized session state.
func (d *Database) SaveSessionSnapshot(s *game.Session) error {
	state, err := s.Snapshot()
	if err != nil {
		return err
	}

	_, err = d.db.Exec(d.rebind(`
		INSERT INTO sessions (id, created_at, updated_at, in_progress, state)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = excluded.updated_at,
		    in_progress = excluded.in_progress,
		    state = excluded.state
	`), s.ID.String(), s.CreatedAt, s.UpdatedAt(), s.GameInProgress(), string(state))
	if err != nil {
		d.log.Error().Err(err).Str("session", s.ID.String()).Msg("saving session snapshot")
	}
	return err
}

// SessionSnapshot retrieves a serialized session by ID.
func (d *Database) SessionSnapshot(id string) (json.RawMessage, error) {
	var state string
	err := d.db.QueryRow(d.rebind("SELECT state FROM sessions WHERE id = ?"), id).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(state), nil
}

// DeleteSession removes a session snapshot.
func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec(d.rebind("DELETE FROM sessions WHERE id = ?"), id)
	return err
}

// SaveGameResult records one player's final score for a session.
func (d *Database) SaveGameResult(sessionID, playerID, playerName string, score int) error {
	_, err := d.db.Exec(d.rebind(`
		INSERT INTO game_results (session_id, player_id, player_name, score, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), sessionID, playerID, playerName, score, time.Now())
	return err
}

// ResultsForSession returns all recorded scores for a session.
func (d *Database) ResultsForSession(sessionID string) ([]GameResult, error) {
	rows, err := d.db.Query(d.rebind(`
		SELECT session_id, player_id, player_name, score, created_at
		FROM game_results WHERE session_id = ? ORDER BY score DESC
	`), sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var r GameResult
		if err := rows.Scan(&r.SessionID, &r.PlayerID, &r.PlayerName, &r.Score, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
