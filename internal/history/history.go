// Package history keeps an optional SQLite audit log of ucw operations:
// which commands were parsed, wrapped, written, and run, and how the runs
// ended. It records operations, not parsed specifications — specs are
// rebuilt fresh on every parse.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event type constants.
const (
	EventParsed      = "command.parsed"
	EventWrapped     = "command.wrapped"
	EventFileWritten = "plugin.written"
	EventExecuted    = "command.executed"
)

// Event is one recorded operation.
type Event struct {
	ID      int64
	At      time.Time
	Type    string
	Command string
	Payload map[string]any
}

// Store is a handle to the history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path, ensuring the
// parent directory exists and the schema is in place.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db at %s: %w", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			event_type TEXT NOT NULL,
			command TEXT NOT NULL,
			payload TEXT NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_events_command ON events(command);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Log inserts one event and returns its id.
func (s *Store) Log(eventType, command string, payload map[string]any) (int64, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO events (at, event_type, command, payload) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), eventType, command, string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit events, newest first, optionally filtered
// by command name.
func (s *Store) Recent(command string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, at, event_type, command, payload FROM events`
	args := []any{}
	if command != "" {
		query += ` WHERE command = ?`
		args = append(args, command)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var at, payload string
		if err := rows.Scan(&e.ID, &at, &e.Type, &e.Command, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			e.Payload = map[string]any{"raw": payload}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
