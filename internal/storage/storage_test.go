package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "locale", "vi"))
	value, err := store.Get(ctx, "locale")
	require.NoError(t, err)
	assert.Equal(t, "vi", value)

	require.NoError(t, store.Remove(ctx, "locale"))
	_, err = store.Get(ctx, "locale")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing a missing key is not an error.
	assert.NoError(t, store.Remove(ctx, "locale"))
}

func TestMemoryStoreFailWith(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	boom := errors.New("disk full")

	store.FailWith("workNotes", boom)
	assert.ErrorIs(t, store.Set(ctx, "workNotes", "[]"), boom)
	_, err := store.Get(ctx, "workNotes")
	assert.ErrorIs(t, err, boom)

	store.FailWith("workNotes", nil)
	assert.NoError(t, store.Set(ctx, "workNotes", "[]"))
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wattendo.db")

	store, err := NewSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, AttendanceRecordsKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, AttendanceRecordsKey, `{}`))
	require.NoError(t, store.Set(ctx, AttendanceRecordsKey, `{"2026-01-05":{}}`))

	value, err := store.Get(ctx, AttendanceRecordsKey)
	require.NoError(t, err)
	assert.Equal(t, `{"2026-01-05":{}}`, value)

	require.NoError(t, store.Remove(ctx, AttendanceRecordsKey))
	_, err = store.Get(ctx, AttendanceRecordsKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wattendo.db")

	store, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, ActiveShiftKey, "shift-1"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, ActiveShiftKey)
	require.NoError(t, err)
	assert.Equal(t, "shift-1", value)
}
