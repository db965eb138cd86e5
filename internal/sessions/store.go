package sessions

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one row of the local session ledger.
type Entry struct {
	ID           int64   `json:"id"`
	SessionID    string  `json:"session_id"`
	SessionType  string  `json:"session_type"`
	Summary      string  `json:"summary"`
	StartedAt    string  `json:"started_at"`
	EndedAt      string  `json:"ended_at"`
	MessageCount int     `json:"message_count"`
	Cost         float64 `json:"cost"`
	Productivity int     `json:"productivity"`
	BoardItemID  string  `json:"board_item_id,omitempty"`
	LoggedAt     string  `json:"logged_at"`
}

// Store is the local sqlite ledger of logged sessions. It mirrors what was
// pushed to the analytics board so history survives board deletion and is
// queryable offline.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the ledger database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("sessions: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sessions: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("sessions: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("sessions: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id    TEXT,
			session_type  TEXT NOT NULL,
			summary       TEXT NOT NULL,
			started_at    TEXT NOT NULL,
			ended_at      TEXT NOT NULL,
			message_count INTEGER NOT NULL DEFAULT 0,
			cost          REAL    NOT NULL DEFAULT 0,
			productivity  INTEGER NOT NULL DEFAULT 0,
			board_item_id TEXT,
			logged_at     TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_type   ON sessions(session_type);
		CREATE INDEX IF NOT EXISTS idx_sessions_logged ON sessions(logged_at DESC);
	`)
	return err
}

// Record appends a logged session to the ledger.
func (s *Store) Record(rec Record, boardItemID string) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, session_type, summary, started_at, ended_at, message_count, cost, productivity, board_item_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, strings.ToLower(rec.SessionType), rec.Summary,
		rec.StartTime.Format(time.RFC3339), rec.EndTime.Format(time.RFC3339),
		rec.MessageCount, rec.CostEstimate, rec.Productivity, boardItemID,
	)
	return err
}

// Recent returns the most recently logged sessions, optionally filtered by
// session type.
func (s *Store) Recent(sessionType string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, ifnull(session_id, ''), session_type, summary, started_at, ended_at,
	                 message_count, cost, productivity, ifnull(board_item_id, ''), logged_at
	          FROM sessions`
	args := []any{}

	if sessionType != "" {
		query += " WHERE session_type = ?"
		args = append(args, strings.ToLower(sessionType))
	}

	query += " ORDER BY logged_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.SessionType, &e.Summary, &e.StartedAt, &e.EndedAt,
			&e.MessageCount, &e.Cost, &e.Productivity, &e.BoardItemID, &e.LoggedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the ledger: totals and per-type counts.
func (s *Store) Stats() (map[string]any, error) {
	var total, messages int
	var cost float64
	if err := s.db.QueryRow(
		`SELECT COUNT(*), ifnull(SUM(message_count), 0), ifnull(SUM(cost), 0) FROM sessions`,
	).Scan(&total, &messages, &cost); err != nil {
		return nil, err
	}

	byType := map[string]int{}
	rows, err := s.db.Query(`SELECT session_type, COUNT(*) FROM sessions GROUP BY session_type`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		byType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"total_sessions": total,
		"total_messages": messages,
		"total_cost":     cost,
		"by_type":        byType,
	}, nil
}
