// Package numbering issues sequential invoice numbers from a client-local counter.
//
// The counter is best effort: two sessions sharing nothing may hand out the same
// number, and nothing here tries to prevent that.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CounterKey is the name under which the last issued suffix is stored
const CounterKey = "lastInvoiceNumber"

// DefaultPrefix is prepended to every issued number
const DefaultPrefix = "INV/SNC"

// CounterStore persists named counter values
type CounterStore interface {
	// Get returns the stored value and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key
	Set(ctx context.Context, key, value string) error
}

// Sequencer hands out invoice numbers of the form <prefix>/<year>/<suffix>
type Sequencer struct {
	store  CounterStore
	prefix string
}

// NewSequencer creates a sequencer backed by store. An empty prefix uses DefaultPrefix.
func NewSequencer(store CounterStore, prefix string) *Sequencer {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Sequencer{store: store, prefix: prefix}
}

// Next increments the stored suffix, persists it, and returns the formatted number
func (s *Sequencer) Next(ctx context.Context, year int) (string, error) {
	last, ok, err := s.store.Get(ctx, CounterKey)
	if err != nil {
		return "", fmt.Errorf("read invoice counter: %w", err)
	}
	if !ok {
		last = "000"
	}

	suffix := NextSuffix(last)
	if err := s.store.Set(ctx, CounterKey, suffix); err != nil {
		return "", fmt.Errorf("store invoice counter: %w", err)
	}

	return Format(s.prefix, year, suffix), nil
}

// Peek returns the last issued suffix without advancing it
func (s *Sequencer) Peek(ctx context.Context) (string, error) {
	last, ok, err := s.store.Get(ctx, CounterKey)
	if err != nil {
		return "", fmt.Errorf("read invoice counter: %w", err)
	}
	if !ok {
		return "000", nil
	}
	return last, nil
}

// NextSuffix returns last+1 padded to at least three digits. An unreadable
// counter is treated as zero.
func NextSuffix(last string) string {
	n, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil || n < 0 {
		n = 0
	}
	return fmt.Sprintf("%03d", n+1)
}

// Format joins prefix, year and suffix into an invoice number
func Format(prefix string, year int, suffix string) string {
	return fmt.Sprintf("%s/%d/%s", prefix, year, suffix)
}
