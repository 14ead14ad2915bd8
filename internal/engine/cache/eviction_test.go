package cache_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"go.scriptor.dev/stash/internal/engine/cache"
)

func TestStore_Eviction_EntryCountBound(t *testing.T) {
	// For any limit, fifty distinct insertions never leave more than the
	// limit behind, and the survivors are the most recent ones.
	for k := 1; k <= 10; k++ {
		t.Run(fmt.Sprintf("max_entries_%d", k), func(t *testing.T) {
			store, parser := newStore(t, cache.WithMaxEntries(k))
			expectParse(parser, 50)

			for i := 0; i < 50; i++ {
				content := fmt.Sprintf(":: Block%d\nline %d\n", i, i)
				_, err := store.GetStructure(fmt.Sprintf("f%d.scr", i), content)
				require.NoError(t, err)

				stats := store.Stats()
				require.LessOrEqual(t, stats.StructureCount+stats.GraphCount, k)
			}

			for i := 50 - k; i < 50; i++ {
				require.True(t, store.IsCached(fmt.Sprintf("f%d.scr", i)), "f%d should survive", i)
			}
		})
	}
}

func TestStore_Eviction_RecentAccessSurvives(t *testing.T) {
	store, parser := newStore(t, cache.WithMaxEntries(5))
	expectParse(parser, 9)

	file := func(i int) string { return fmt.Sprintf("f%d.scr", i) }
	content := func(i int) string { return fmt.Sprintf("content-%d", i) }

	// Fill the store: f0 through f4.
	for i := 0; i < 5; i++ {
		_, err := store.GetStructure(file(i), content(i))
		require.NoError(t, err)
	}

	// Touch f0 so f1 becomes the oldest.
	_, err := store.GetStructure(file(0), content(0))
	require.NoError(t, err)

	// f5 evicts f1, not f0.
	_, err = store.GetStructure(file(5), content(5))
	require.NoError(t, err)
	require.True(t, store.IsCached(file(0)))
	require.False(t, store.IsCached(file(1)))

	// f6 through f8 finish the sweep: every original except f0 goes.
	for i := 6; i < 9; i++ {
		_, err = store.GetStructure(file(i), content(i))
		require.NoError(t, err)
	}
	for _, i := range []int{1, 2, 3, 4} {
		require.False(t, store.IsCached(file(i)), "f%d should be evicted", i)
	}
	for _, i := range []int{0, 5, 6, 7, 8} {
		require.True(t, store.IsCached(file(i)), "f%d should survive", i)
	}
}

func TestStore_Eviction_MemoryBound(t *testing.T) {
	// Measure what one entry of this shape costs before pinning the limit.
	probe, probeParser := newStore(t)
	expectParse(probeParser, 1)
	_, err := probe.GetStructure("probe.scr", "content-0")
	require.NoError(t, err)
	unit := probe.Stats().MemoryUsage
	require.Positive(t, unit)

	// Room for exactly two entries of that size. The contents all have the
	// same length, so every entry costs one unit.
	store, parser := newStore(t, cache.WithMaxMemoryBytes(2*unit))
	expectParse(parser, 3)

	for i := 0; i < 3; i++ {
		_, err := store.GetStructure(fmt.Sprintf("f%d.scr", i), fmt.Sprintf("content-%d", i))
		require.NoError(t, err)
	}

	require.False(t, store.IsCached("f0.scr"))
	require.True(t, store.IsCached("f1.scr"))
	require.True(t, store.IsCached("f2.scr"))
	require.LessOrEqual(t, store.Stats().MemoryUsage, 2*unit)
}

func TestStore_Eviction_OversizedEntryEvictsEverything(t *testing.T) {
	// A limit below any entry's size: the store sheds the new entry too.
	// The caller still gets the parse result; it just is not retained.
	store, parser := newStore(t, cache.WithMaxMemoryBytes(1))
	expectParse(parser, 1)

	structure, err := store.GetStructure("a.scr", ":: Start\nHello\n")
	require.NoError(t, err)
	require.NotNil(t, structure)

	stats := store.Stats()
	require.Equal(t, 0, stats.StructureCount)
	require.Zero(t, stats.MemoryUsage)
	require.False(t, store.IsCached("a.scr"))
}

func TestStore_Eviction_BothLimitsApply(t *testing.T) {
	// One insertion violates both limits. The count pass trims to two
	// digests, then the memory pass keeps going on what is left, so only
	// the newest entry survives.
	probe, probeParser := newStore(t)
	expectParse(probeParser, 1)
	_, err := probe.GetStructure("probe.scr", "content-0")
	require.NoError(t, err)
	unit := probe.Stats().MemoryUsage

	store, parser := newStore(t, cache.WithMaxEntries(2), cache.WithMaxMemoryBytes(unit))
	expectParse(parser, 3)

	for i := 0; i < 3; i++ {
		_, err := store.GetStructure(fmt.Sprintf("f%d.scr", i), fmt.Sprintf("content-%d", i))
		require.NoError(t, err)
	}

	require.False(t, store.IsCached("f0.scr"))
	require.False(t, store.IsCached("f1.scr"))
	require.True(t, store.IsCached("f2.scr"))

	stats := store.Stats()
	require.Equal(t, 1, stats.StructureCount)
	require.Equal(t, unit, stats.MemoryUsage)
}

func TestStore_Eviction_GraphsShareBudget(t *testing.T) {
	// Graph insertions compete for the same slots as structures.
	store, parser := newStore(t, cache.WithMaxEntries(2))
	expectParse(parser, 2)

	_, err := store.GetStructure("f0.scr", "content-0")
	require.NoError(t, err)
	d0, _ := store.Digest("f0.scr")
	_, err = store.GetStructure("f1.scr", "content-1")
	require.NoError(t, err)
	d1, _ := store.Digest("f1.scr")

	_, err = store.GetGraph("cafef00d", buildStub)
	require.NoError(t, err)

	require.False(t, store.HasStructure(d0))
	require.True(t, store.HasStructure(d1))
	require.True(t, store.HasGraph("cafef00d"))
}

func TestStore_Eviction_PathIndexUntouched(t *testing.T) {
	// Eviction drops entries but never path mappings: the path still
	// remembers its digest, reports not cached, and recovers by re-parsing.
	store, parser := newStore(t, cache.WithMaxEntries(1))
	expectParse(parser, 3)

	_, err := store.GetStructure("f0.scr", "content-0")
	require.NoError(t, err)
	d0, ok := store.Digest("f0.scr")
	require.True(t, ok)

	// f1 pushes f0's digest out.
	_, err = store.GetStructure("f1.scr", "content-1")
	require.NoError(t, err)

	got, ok := store.Digest("f0.scr")
	require.True(t, ok)
	require.Equal(t, d0, got)
	require.False(t, store.IsCached("f0.scr"))
	require.False(t, store.HasStructure(d0))

	// Re-access is a plain miss that restores the entry.
	_, err = store.GetStructure("f0.scr", "content-0")
	require.NoError(t, err)
	require.True(t, store.IsCached("f0.scr"))
	require.Equal(t, uint64(3), store.Stats().Misses)
}
