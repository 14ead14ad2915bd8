package filestore_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.scriptor.dev/stash/internal/adapters/snapstore/filestore"
	"go.scriptor.dev/stash/internal/core/domain"
)

func testSnapshot() *domain.Snapshot {
	saved := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	return &domain.Snapshot{
		StructureEntries: []domain.SnapshotEntry{{
			Digest:         "93412143",
			Data:           []byte(`{"blocks":[],"lines":3}`),
			CreatedAt:      saved,
			LastAccessedAt: saved,
			SizeEstimate:   46,
		}},
		GraphEntries: []domain.SnapshotEntry{},
		PathEntries:  []domain.PathEntry{{Path: "story/intro.scr", Digest: "93412143"}},
		Metadata: domain.SnapshotMetadata{
			Version: domain.SnapshotVersion,
			SavedAt: saved,
			Recency: []domain.Digest{"93412143"},
		},
	}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	store := filestore.NewStore(t.TempDir())
	ctx := context.Background()

	require.True(t, store.Available())
	require.NoError(t, store.Save(ctx, testSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testSnapshot(), loaded)
}

func TestStore_Load_MissingFile(t *testing.T) {
	store := filestore.NewStore(t.TempDir())

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestStore_Save_Overwrites(t *testing.T) {
	store := filestore.NewStore(t.TempDir())
	ctx := context.Background()

	first := testSnapshot()
	require.NoError(t, store.Save(ctx, first))

	second := testSnapshot()
	second.PathEntries = append(second.PathEntries, domain.PathEntry{
		Path:   "story/outro.scr",
		Digest: "0f923099",
	})
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.PathEntries, 2)
}

func TestStore_Load_GarbageFile(t *testing.T) {
	dir := t.TempDir()
	store := filestore.NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte("not json at all"), 0o644))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	store := filestore.NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "snapshot.json"), nil, 0o644))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestStore_Load_TamperedContent(t *testing.T) {
	dir := t.TempDir()
	store := filestore.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	// Flip a recorded path without touching the checksum.
	name := filepath.Join(dir, "snapshot.json")
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	tampered := bytes.ReplaceAll(data, []byte(`story/intro.scr`), []byte(`story/intro.bak`))
	require.NotEqual(t, data, tampered)
	require.NoError(t, os.WriteFile(name, tampered, 0o644))

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestStore_Clear(t *testing.T) {
	store := filestore.NewStore(t.TempDir())
	ctx := context.Background()

	// Clearing before anything was saved is fine.
	require.NoError(t, store.Clear(ctx))

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".stash")
	store := filestore.NewStore(dir)

	require.NoError(t, store.Save(context.Background(), testSnapshot()))

	_, err := os.Stat(filepath.Join(dir, "snapshot.json"))
	require.NoError(t, err)
}
