package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteCounterSchema = `
CREATE TABLE IF NOT EXISTS invoice_counters (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteCounterRepository persists counters in a local SQLite database
type SQLiteCounterRepository struct {
	db *sql.DB
}

// OpenSQLiteCounterRepository opens (or creates) the database at path and
// ensures the counter table exists. ":memory:" is accepted for tests.
func OpenSQLiteCounterRepository(path string) (*SQLiteCounterRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a private in-memory database only lives on its own connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteCounterSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create counter table: %w", err)
	}

	return &SQLiteCounterRepository{db: db}, nil
}

// Get returns the value stored under key
func (r *SQLiteCounterRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM invoice_counters WHERE name = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, &RepositoryError{Op: "get_counter", Err: err}
	}
	return value, true, nil
}

// Set stores value under key
func (r *SQLiteCounterRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invoice_counters (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return &RepositoryError{Op: "set_counter", Err: err}
	}
	return nil
}

// Close closes the SQLite handle
func (r *SQLiteCounterRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
