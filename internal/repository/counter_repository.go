package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// CounterRepository persists the named counters behind invoice numbering
type CounterRepository interface {
	numbering.CounterStore

	// Close releases any underlying resources
	Close() error
}

var (
	_ CounterRepository = (*MemoryCounterRepository)(nil)
	_ CounterRepository = (*FileCounterRepository)(nil)
	_ CounterRepository = (*SQLiteCounterRepository)(nil)
	_ CounterRepository = (*PostgresCounterRepository)(nil)
)

// MemoryCounterRepository keeps counters for the lifetime of the process
type MemoryCounterRepository struct {
	mutex  sync.RWMutex
	values map[string]string
}

// NewMemoryCounterRepository creates an empty in-memory counter repository
func NewMemoryCounterRepository() *MemoryCounterRepository {
	return &MemoryCounterRepository{values: make(map[string]string)}
}

// Get returns the value stored under key
func (r *MemoryCounterRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &RepositoryError{Op: "get_counter", Err: err}
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

// Set stores value under key
func (r *MemoryCounterRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &RepositoryError{Op: "set_counter", Err: err}
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.values[key] = value
	return nil
}

// Close is a no-op
func (r *MemoryCounterRepository) Close() error { return nil }
