package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_EmptyLoad(t *testing.T) {
	s := newTestSQLiteStore(t)

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteStore_AppendThenLoad(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	entry, err := s.Append(ctx, "Graph Theory", "Plan body", "<svg></svg>")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "Graph Theory", entries[0].Prompt)
	assert.Equal(t, "<svg></svg>", entries[0].SVG)
	assert.True(t, entry.CreatedAt.Equal(entries[0].CreatedAt))
}

func TestSQLiteStore_Get(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	entry, err := s.Append(ctx, "topic", "plan", "")
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Prompt, got.Prompt)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_OrderSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.Append(ctx, "first", "p1", "")
	require.NoError(t, err)
	_, err = s.Append(ctx, "second", "p2", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Prompt)
	assert.Equal(t, "second", entries[1].Prompt)
}
