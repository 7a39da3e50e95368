// Package history keeps a local sqlite log of resolve outcomes for
// diagnostics. Only the submitted page URL and the outcome are stored; asset
// URLs and media bytes never are.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded resolve call.
type Entry struct {
	ID        int64
	URL       string
	Platform  string
	Success   bool
	ErrorKind string
	Title     string
	Assets    int
	Duration  time.Duration
	CreatedAt time.Time
}

// Stat counts entries per platform and outcome.
type Stat struct {
	Platform string
	Success  bool
	Count    int
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS resolves (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    url         TEXT NOT NULL,
    platform    TEXT NOT NULL DEFAULT '',
    success     INTEGER NOT NULL DEFAULT 0,
    error_kind  TEXT NOT NULL DEFAULT '',
    title       TEXT NOT NULL DEFAULT '',
    assets      INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resolves_created_at ON resolves(created_at);
CREATE INDEX IF NOT EXISTS idx_resolves_platform ON resolves(platform);
`

// Store wraps the sqlite connection.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history at %s: %w", path, err)
	}
	// one connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends e. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("history not initialized")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO resolves (url, platform, success, error_kind, title, assets, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.URL, e.Platform, boolToInt(e.Success), e.ErrorKind, e.Title, e.Assets,
		e.Duration.Milliseconds(), e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, platform, success, error_kind, title, assets, duration_ms, created_at
		FROM resolves
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			success    int
			durationMS int64
			createdMS  int64
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Platform, &success, &e.ErrorKind, &e.Title, &e.Assets, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Success = success != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = time.UnixMilli(createdMS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// Stats counts entries grouped by platform and outcome.
func (s *Store) Stats(ctx context.Context) ([]Stat, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, success, COUNT(*)
		FROM resolves
		GROUP BY platform, success
		ORDER BY platform, success DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying history stats: %w", err)
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var (
			st      Stat
			success int
		)
		if err := rows.Scan(&st.Platform, &success, &st.Count); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		st.Success = success != 0
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats: %w", err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
