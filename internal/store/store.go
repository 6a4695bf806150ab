// Package store persists calendar schedule snapshots to SQLite. A
// snapshot freezes the full schedule of one constructed calendar so it
// can be compared after a definition change or exported offline.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS schedule_snapshots (
    id          TEXT PRIMARY KEY,
    calendar    TEXT NOT NULL,
    side        TEXT NOT NULL,
    start_date  TEXT NOT NULL,
    end_date    TEXT NOT NULL,
    sessions    INTEGER NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_rows (
    snapshot_id TEXT NOT NULL REFERENCES schedule_snapshots(id) ON DELETE CASCADE,
    session     TEXT NOT NULL,
    open        TEXT NOT NULL,
    close       TEXT NOT NULL,
    break_start TEXT,
    break_end   TEXT,
    PRIMARY KEY (snapshot_id, session)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_calendar
    ON schedule_snapshots(calendar, created_at);
`

// Store wraps the snapshot database connection
type Store struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
}

// Open opens (creating if needed) the snapshot database at path and
// applies the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", buildConnectionString(absPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	// Snapshots are written rarely and read rarely; a small pool is
	// plenty.
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(1 * time.Hour)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply snapshot schema: %w", err)
	}

	return &Store{
		conn: conn,
		path: absPath,
		log:  log.With().Str("component", "store").Logger(),
	}, nil
}

// buildConnectionString creates the SQLite connection string with the
// standard PRAGMA set: WAL journaling, checkpoint-time fsync, in-memory
// temp tables.
func buildConnectionString(path string) string {
	connStr := path + "?_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(NORMAL)"
	connStr += "&_pragma=temp_store(MEMORY)"
	connStr += "&_pragma=foreign_keys(1)"
	connStr += "&_pragma=wal_autocheckpoint(1000)"
	return connStr
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}
