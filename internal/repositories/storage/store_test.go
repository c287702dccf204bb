package storage_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/householderhq/householder/internal/repositories/storage"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	var out map[string]int
	ok, err := store.Load(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "k", map[string]int{"a": 1}))
	ok, err = store.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, out)

	require.NoError(t, store.Delete(ctx, "k"))
	ok, err = store.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_UnreadableValueReportsAbsence(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetRaw("k", "{not json")

	var out map[string]int
	ok, err := store.Load(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_NewID(t *testing.T) {
	store := storage.NewMemoryStore()
	first := store.NewID("acc")
	second := store.NewID("acc")

	assert.True(t, strings.HasPrefix(first, "acc_"))
	assert.NotEqual(t, first, second)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	var out []string
	ok, err := store.Load(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "k", []string{"a", "b"}))
	ok, err = store.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, out)

	// Upsert overwrites in place.
	require.NoError(t, store.Save(ctx, "k", []string{"c"}))
	_, err = store.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, out)

	require.NoError(t, store.Delete(ctx, "k"))
	ok, err = store.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "k", "persisted"))
	require.NoError(t, store.Close())

	reopened, err := storage.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	var out string
	ok, err := reopened.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", out)
}
