package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileIsFirstRun(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "progress.json"))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, state.CompletedCategories)
	require.Empty(t, state.SeenItemIDs)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewFileStore(path)
	ctx := context.Background()

	state, err := store.Load(ctx)
	require.NoError(t, err)

	state.MarkSeen("id1")
	state.MarkSeen("id2")
	state.MarkCompleted("Rare_0-1c")
	require.NoError(t, store.Save(ctx, state))

	restored, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, restored.IsCompleted("Rare_0-1c"))
	require.False(t, restored.MarkSeen("id1"))
	require.False(t, restored.MarkSeen("id2"))
	require.Equal(t, state.LastUpdated.Unix(), restored.LastUpdated.Unix())
}

func TestFileStoreCorruptCheckpointIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrCorruptCheckpoint)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "progress.json"))
	ctx := context.Background()

	state, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Save(ctx, state))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "progress.json", entries[0].Name())
}
