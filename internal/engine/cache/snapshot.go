package cache

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"

	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
)

// ContentLookup resolves a path to its current on-disk content. ok reports
// whether the file still exists and could be read.
type ContentLookup func(path string) (content string, ok bool)

// Export captures the full cache state as a version-stamped snapshot. Entry
// payloads are serialized to raw JSON so a snapshot written today can still
// be decoded, inspected or pruned by a future version that has moved on;
// entries and paths are sorted so the same state always exports the same
// bytes.
func (s *Store) Export() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recency := make([]domain.Digest, len(s.recency))
	copy(recency, s.recency)

	snap := &domain.Snapshot{
		StructureEntries: make([]domain.SnapshotEntry, 0, len(s.structures)),
		GraphEntries:     make([]domain.SnapshotEntry, 0, len(s.graphs)),
		PathEntries:      make([]domain.PathEntry, 0, len(s.pathIndex)),
		Metadata: domain.SnapshotMetadata{
			Version: domain.SnapshotVersion,
			SavedAt: time.Now().UTC(),
			Recency: recency,
		},
	}

	for _, entry := range s.structures {
		data, err := json.Marshal(entry.Data)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to serialize structure entry")
		}
		snap.StructureEntries = append(snap.StructureEntries, domain.SnapshotEntry{
			Digest:         entry.Digest,
			Data:           data,
			CreatedAt:      entry.CreatedAt,
			LastAccessedAt: entry.LastAccessedAt,
			SizeEstimate:   entry.SizeEstimate,
		})
	}
	for _, entry := range s.graphs {
		data, err := json.Marshal(entry.Data)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to serialize graph entry")
		}
		snap.GraphEntries = append(snap.GraphEntries, domain.SnapshotEntry{
			Digest:         entry.Digest,
			Data:           data,
			CreatedAt:      entry.CreatedAt,
			LastAccessedAt: entry.LastAccessedAt,
			SizeEstimate:   entry.SizeEstimate,
		})
	}
	for path, digest := range s.pathIndex {
		snap.PathEntries = append(snap.PathEntries, domain.PathEntry{
			Path:   path,
			Digest: digest,
		})
	}

	slices.SortFunc(snap.StructureEntries, func(a, b domain.SnapshotEntry) int {
		return cmp.Compare(a.Digest, b.Digest)
	})
	slices.SortFunc(snap.GraphEntries, func(a, b domain.SnapshotEntry) int {
		return cmp.Compare(a.Digest, b.Digest)
	})
	slices.SortFunc(snap.PathEntries, func(a, b domain.PathEntry) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return snap, nil
}

// Import replaces the store's contents with the snapshot's, pruning state
// that no longer matches the world, and returns the number of path mappings
// dropped during validation. A nil lookup skips validation and restores
// every mapping, which is only sensible in tests.
//
// The whole import is one critical section: concurrent readers observe
// either the old state or the fully validated new one, never a half-load.
// Hit and miss counters carry over, as they do across Clear.
func (s *Store) Import(snap *domain.Snapshot, current ContentLookup) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	// 1. Repopulate both tables verbatim. Entries whose payload no longer
	// decodes are skipped and their digests then fail the liveness filter
	// below like any other casualty.
	for i := range snap.StructureEntries {
		se := &snap.StructureEntries[i]
		var structure *domain.Structure
		if err := json.Unmarshal(se.Data, &structure); err != nil || structure == nil {
			continue
		}
		s.structures[se.Digest] = &domain.CacheEntry[*domain.Structure]{
			Digest:         se.Digest,
			Data:           structure,
			CreatedAt:      se.CreatedAt,
			LastAccessedAt: se.LastAccessedAt,
			SizeEstimate:   se.SizeEstimate,
		}
		s.memoryUsage += se.SizeEstimate
	}
	for i := range snap.GraphEntries {
		ge := &snap.GraphEntries[i]
		var graph *domain.Graph
		if err := json.Unmarshal(ge.Data, &graph); err != nil || graph == nil {
			continue
		}
		s.graphs[ge.Digest] = &domain.CacheEntry[*domain.Graph]{
			Digest:         ge.Digest,
			Data:           graph,
			CreatedAt:      ge.CreatedAt,
			LastAccessedAt: ge.LastAccessedAt,
			SizeEstimate:   ge.SizeEstimate,
		}
		s.memoryUsage += ge.SizeEstimate
	}

	// 2. Validate each recorded path against the current world.
	pruned := 0
	for _, pe := range snap.PathEntries {
		if current == nil {
			s.pathIndex[pe.Path] = pe.Digest
			continue
		}
		content, ok := current(pe.Path)
		switch {
		case !ok:
			// File gone: the mapping dies, the entries stay. Another live
			// path may still point at the same digest.
			pruned++
		case domain.HashContent(content) != pe.Digest:
			// File changed: the cached artifacts describe text that no
			// longer exists anywhere, so they go down with the mapping.
			s.removeDigest(pe.Digest)
			pruned++
		default:
			s.pathIndex[pe.Path] = pe.Digest
		}
	}

	// 3. Rebuild the recency order from the snapshot's recorded order,
	// keeping only digests that survived steps 1 and 2.
	for _, digest := range snap.Metadata.Recency {
		_, inStructures := s.structures[digest]
		_, inGraphs := s.graphs[digest]
		if inStructures || inGraphs {
			s.recency = append(s.recency, digest)
		}
	}

	return pruned
}
