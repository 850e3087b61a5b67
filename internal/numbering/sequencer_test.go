package numbering_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-generator-service/internal/numbering"
	"github.com/ridwanfathin/invoice-generator-service/internal/repository"
)

func TestNextFromStoredCounter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryCounterRepository()
	require.NoError(t, store.Set(ctx, numbering.CounterKey, "007"))

	seq := numbering.NewSequencer(store, "")
	number, err := seq.Next(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "INV/SNC/2025/008", number)

	stored, ok, err := store.Get(ctx, numbering.CounterKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "008", stored)
}

func TestNextNeverRepeatsWithinSession(t *testing.T) {
	ctx := context.Background()
	seq := numbering.NewSequencer(repository.NewMemoryCounterRepository(), "INV/ACME/")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		number, err := seq.Next(ctx, 2026)
		require.NoError(t, err)
		assert.False(t, seen[number], "duplicate %s", number)
		seen[number] = true
	}
	assert.True(t, seen["INV/ACME/2026/001"])
	assert.True(t, seen["INV/ACME/2026/005"])

	last, err := seq.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, "005", last)
}

func TestNextSuffix(t *testing.T) {
	assert.Equal(t, "001", numbering.NextSuffix("000"))
	assert.Equal(t, "010", numbering.NextSuffix("009"))
	assert.Equal(t, "1000", numbering.NextSuffix("999"))
	assert.Equal(t, "001", numbering.NextSuffix("garbage"))
	assert.Equal(t, "001", numbering.NextSuffix(""))
}

type failingStore struct {
	getErr, setErr error
	sets           int
}

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "041", true, f.getErr
}

func (f *failingStore) Set(context.Context, string, string) error {
	f.sets++
	return f.setErr
}

func TestNextPropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	seq := numbering.NewSequencer(&failingStore{getErr: boom}, "")
	_, err := seq.Next(ctx, 2025)
	assert.ErrorIs(t, err, boom)

	store := &failingStore{setErr: boom}
	seq = numbering.NewSequencer(store, "")
	number, err := seq.Next(ctx, 2025)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, number, "a number that was not persisted is never returned")
	assert.Equal(t, 1, store.sets)
}
