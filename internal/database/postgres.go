// Package database owns the PostgreSQL pool behind the postgres counter
// backend and applies the schema migrations it needs.
package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMissingURL is returned when no connection string is configured
var ErrMissingURL = errors.New("POSTGRES_DB_URL is not set")

// PostgresDB wraps the pool shared by the counter repository
type PostgresDB struct {
	pool *pgxpool.Pool
}

// Option tunes the pool before it connects
type Option func(*pgxpool.Config)

// WithMaxConns caps the pool size; n <= 0 keeps the pgx default
func WithMaxConns(n int32) Option {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = n
		}
	}
}

// NewPostgresDB connects to dbURL and pings it. The pool is closed again if
// the ping fails.
func NewPostgresDB(ctx context.Context, dbURL string, opts ...Option) (*PostgresDB, error) {
	if dbURL == "" {
		return nil, ErrMissingURL
	}

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the pool
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool returns the pool for repositories
func (db *PostgresDB) GetPool() *pgxpool.Pool {
	return db.pool
}

// Migrate runs every .sql file in fsys, in name order, inside one transaction.
// Nothing is applied when any file fails.
func (db *PostgresDB) Migrate(ctx context.Context, fsys fs.FS) ([]string, error) {
	names, err := migrationFiles(fsys)
	if err != nil {
		return nil, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin migration: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	for _, name := range names {
		stmt, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(stmt)); err != nil {
			return nil, fmt.Errorf("execute %s: %w", name, err)
		}
		log.Printf("Applied migration %s", name)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit migration: %w", err)
	}
	return names, nil
}

// migrationFiles lists the top-level .sql files of fsys sorted by name
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
