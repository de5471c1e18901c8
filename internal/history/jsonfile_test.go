package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "prompt_history.json"))
	require.NoError(t, err)
	return s
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := newTestFileStore(t)

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_LoadWrongShape(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte(`["just","an","array"]`), 0o644))

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_AppendThenLoad(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	entry, err := s.Append(ctx, "Neural Networks", "Plan body", "<svg></svg>")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[len(entries)-1])
}

func TestFileStore_AppendPreservesOrder(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, "first", "p1", "")
	require.NoError(t, err)
	second, err := s.Append(ctx, "second", "p2", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Prompt)
	assert.Equal(t, "second", entries[1].Prompt)
}

func TestFileStore_RoundTripOnDisk(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "topic", "plan", "<svg/>")
	require.NoError(t, err)

	// The file itself holds the documented container shape.
	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	var c container
	require.NoError(t, json.Unmarshal(raw, &c))
	require.Len(t, c.Topics, 1)
	assert.Equal(t, "topic", c.Topics[0].Prompt)

	// A fresh store over the same file sees the same entries.
	reopened, err := NewFileStore(s.path)
	require.NoError(t, err)
	entries, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "topic", entries[0].Prompt)
}

func TestFileStore_Get(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	entry, err := s.Append(ctx, "topic", "plan", "")
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	_, ok, err = s.Get(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, ok)
}
