package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCounterRepository implements CounterRepository using PostgreSQL
type PostgresCounterRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCounterRepository creates a new PostgreSQL counter repository.
// The invoice_counters table comes from scripts/migrations.
func NewPostgresCounterRepository(db *pgxpool.Pool) *PostgresCounterRepository {
	return &PostgresCounterRepository{
		db: db,
	}
}

// Get returns the value stored under key
func (r *PostgresCounterRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(ctx, `
		SELECT value
		FROM invoice_counters
		WHERE name = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, &RepositoryError{
			Op:  "get_counter",
			Err: fmt.Errorf("failed to query counter: %w", err),
		}
	}
	return value, true, nil
}

// Set stores value under key
func (r *PostgresCounterRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoice_counters (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return &RepositoryError{
			Op:  "set_counter",
			Err: fmt.Errorf("failed to upsert counter: %w", err),
		}
	}
	return nil
}

// Close is a no-op; the pool is owned by database.PostgresDB
func (r *PostgresCounterRepository) Close() error { return nil }
