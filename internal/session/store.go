package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/darkstrike03/nyx/internal/mood"
	_ "modernc.org/sqlite"
)

// Store is the short-term session log. GetAll gives no ordering
// guarantee; callers that need order must establish it themselves.
type Store interface {
	Put(ctx context.Context, e Entry) error
	GetAll(ctx context.Context) (map[string]Entry, error)
	DeleteAll(ctx context.Context) error
}

// SQLiteStore persists session entries in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS session_entries (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		message TEXT NOT NULL,
		mood TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT 'chat'
	)`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_entries (id, timestamp, message, mood, intent)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp, e.Message, string(e.Mood), e.Intent)
	if err != nil {
		return fmt.Errorf("put session entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, message, mood, intent FROM session_entries
	`)
	if err != nil {
		return nil, fmt.Errorf("query session entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		var e Entry
		var m string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Message, &m, &e.Intent); err != nil {
			return nil, fmt.Errorf("scan session entry: %w", err)
		}
		e.Mood = mood.Label(m)
		entries[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session entries: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_entries`); err != nil {
		return fmt.Errorf("purge session entries: %w", err)
	}
	return nil
}

// Count reports the number of stored entries, used by status reporting.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count session entries: %w", err)
	}
	return n, nil
}
