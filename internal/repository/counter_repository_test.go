package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseCounterRepository runs the behavior every backend must share
func exerciseCounterRepository(t *testing.T, repo CounterRepository) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "lastInvoiceNumber", "007"))
	v, ok, err := repo.Get(ctx, "lastInvoiceNumber")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "007", v)

	require.NoError(t, repo.Set(ctx, "lastInvoiceNumber", "008"))
	v, _, err = repo.Get(ctx, "lastInvoiceNumber")
	require.NoError(t, err)
	assert.Equal(t, "008", v)
}

func TestMemoryCounterRepository(t *testing.T) {
	repo := NewMemoryCounterRepository()
	exerciseCounterRepository(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.Set(ctx, "k", "v")
	var repoErr *RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "set_counter", repoErr.Op)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileCounterRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "counter.json")
	repo, err := NewFileCounterRepository(path)
	require.NoError(t, err)
	exerciseCounterRepository(t, repo)

	reopened, err := NewFileCounterRepository(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "lastInvoiceNumber")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "008", v, "value survives reopening")

	_, err = NewFileCounterRepository("")
	assert.Error(t, err)
}

func TestFileCounterRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo, err := NewFileCounterRepository(path)
	require.NoError(t, err)
	_, _, err = repo.Get(context.Background(), "lastInvoiceNumber")
	assert.Error(t, err)
}

func TestSQLiteCounterRepository(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, err := OpenSQLiteCounterRepository(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = repo.Close() })
		exerciseCounterRepository(t, repo)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "counters.db")
		repo, err := OpenSQLiteCounterRepository(path)
		require.NoError(t, err)
		exerciseCounterRepository(t, repo)
		require.NoError(t, repo.Close())

		reopened, err := OpenSQLiteCounterRepository(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = reopened.Close() })
		v, ok, err := reopened.Get(context.Background(), "lastInvoiceNumber")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "008", v)
	})

	_, err := OpenSQLiteCounterRepository(" ")
	assert.Error(t, err)
}

func TestPostgresCounterRepository(t *testing.T) {
	dbURL := os.Getenv("POSTGRES_DB_URL")
	if dbURL == "" {
		t.Skip("Skipping Postgres counter test as POSTGRES_DB_URL is not configured")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS invoice_counters (
		name TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM invoice_counters WHERE name IN ('missing', 'lastInvoiceNumber')`)
	require.NoError(t, err)

	exerciseCounterRepository(t, NewPostgresCounterRepository(pool))
}
