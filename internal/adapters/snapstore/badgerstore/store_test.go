package badgerstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"go.scriptor.dev/stash/internal/core/domain"
)

// The test package is internal so the tamper tests can write through the
// raw database handle.

func setupStoreTest(t *testing.T) *Store {
	t.Helper()

	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Metadata: domain.SnapshotMetadata{
			Version: domain.SnapshotVersion,
			SavedAt: time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC),
			Recency: []domain.Digest{"93412143"},
		},
		StructureEntries: []domain.SnapshotEntry{
			{
				Digest:         "93412143",
				Data:           json.RawMessage(`{"blocks":[],"lines":3}`),
				CreatedAt:      time.Date(2025, 6, 2, 8, 29, 45, 0, time.UTC),
				LastAccessedAt: time.Date(2025, 6, 2, 8, 29, 45, 0, time.UTC),
				SizeEstimate:   46,
			},
		},
		GraphEntries: []domain.SnapshotEntry{},
		PathEntries: []domain.PathEntry{
			{Path: "story/intro.scr", Digest: "93412143"},
		},
	}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	store := setupStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testSnapshot(), loaded)
}

func TestStore_Load_EmptyDatabase(t *testing.T) {
	store := setupStoreTest(t)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestStore_Save_Overwrites(t *testing.T) {
	store := setupStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	second := testSnapshot()
	second.PathEntries[0].Path = "story/finale.scr"
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "story/finale.scr", loaded.PathEntries[0].Path)
}

func TestStore_Load_TamperedPayload(t *testing.T) {
	store := setupStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	// Flip the payload underneath the stored checksum.
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keySnapshot, []byte(`{"metadata":{"version":1}}`))
	})
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestStore_Load_MissingChecksum(t *testing.T) {
	store := setupStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyChecksum)
	})
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestStore_Clear(t *testing.T) {
	store := setupStoreTest(t)
	ctx := context.Background()

	// Clearing an empty database is fine.
	require.NoError(t, store.Clear(ctx))

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestStore_Available(t *testing.T) {
	store := setupStoreTest(t)
	require.True(t, store.Available())
}
