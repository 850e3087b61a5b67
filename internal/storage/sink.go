// Package storage holds the destinations exported invoice documents are written to.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives a finished document
type Sink interface {
	// Put stores data under name and returns where it ended up
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var (
	_ Sink = (*FileSink)(nil)
	_ Sink = (*S3Uploader)(nil)
)

// FileSink writes documents into a local directory
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Put writes data to dir/name. Names are flattened so invoice numbers such as
// INV/SNC/2025/001 do not create nested directories.
func (s *FileSink) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(s.dir, SafeName(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// SafeName replaces path separators and other awkward characters in a file name
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
}
