package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// FileCounterRepository keeps counters in a small JSON document on disk,
// the CLI's stand-in for browser local storage
type FileCounterRepository struct {
	path  string
	mutex sync.Mutex
}

// NewFileCounterRepository creates a repository backed by the file at path.
// The file and its directory are created on first write.
func NewFileCounterRepository(path string) (*FileCounterRepository, error) {
	if path == "" {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("counter file path is required"),
		}
	}
	return &FileCounterRepository{path: filepath.Clean(path)}, nil
}

// Get returns the value stored under key
func (r *FileCounterRepository) Get(ctx context.Context, key string) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, &RepositoryError{Op: "get_counter", Err: ctx.Err()}
	default:
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	values, err := r.load()
	if err != nil {
		return "", false, &RepositoryError{Op: "get_counter", Err: err}
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key, rewriting the file atomically
func (r *FileCounterRepository) Set(ctx context.Context, key, value string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{Op: "set_counter", Err: ctx.Err()}
	default:
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	values, err := r.load()
	if err != nil {
		return &RepositoryError{Op: "set_counter", Err: err}
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return &RepositoryError{
			Op:  "set_counter",
			Err: fmt.Errorf("failed to serialize counters: %w", err),
		}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return &RepositoryError{
			Op:  "set_counter",
			Err: fmt.Errorf("failed to create counter directory: %w", err),
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return &RepositoryError{
			Op:  "set_counter",
			Err: fmt.Errorf("failed to write counter file: %w", err),
		}
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return &RepositoryError{
			Op:  "set_counter",
			Err: fmt.Errorf("failed to replace counter file: %w", err),
		}
	}
	return nil
}

// Close is a no-op
func (r *FileCounterRepository) Close() error { return nil }

func (r *FileCounterRepository) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read counter file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to deserialize counters: %w", err)
	}
	return values, nil
}
