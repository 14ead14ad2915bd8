// Package cache implements the content-addressed store for derived script
// artifacts. Parsed structures and navigation graphs are keyed by the digest
// of the source text that produced them, so a file whose content has not
// changed never pays for a second parse, no matter how often it is reopened
// or renamed.
package cache

import (
	"sync"
	"time"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Store is the in-memory artifact cache. Structures and graphs live in two
// separate tables that share one recency order, one memory account and one
// pair of capacity limits, so a graph-heavy session can evict structures and
// the other way around.
//
// All methods are safe for concurrent use. A single mutex guards the whole
// store; the critical sections are map lookups plus a recency bump, short
// enough that finer-grained locking has not been worth its complexity.
type Store struct {
	mu sync.Mutex

	parser ports.Parser

	maxEntries     int
	maxMemoryBytes int64

	structures map[domain.Digest]*domain.CacheEntry[*domain.Structure]
	graphs     map[domain.Digest]*domain.CacheEntry[*domain.Graph]

	// pathIndex remembers which digest a path produced most recently. It is
	// bookkeeping, not an ownership record: eviction leaves it alone, and a
	// stale mapping simply misses on its next access.
	pathIndex map[string]domain.Digest

	// recency holds every digest present in structures or graphs exactly
	// once, oldest first. A digest cached in both tables still occupies one
	// slot; evicting it drops both entries.
	recency []domain.Digest

	memoryUsage int64
	hits        uint64
	misses      uint64
}

// New creates a Store that parses misses with parser. Limits default to
// DefaultMaxEntries and DefaultMaxMemoryBytes unless overridden by options.
func New(parser ports.Parser, opts ...Option) *Store {
	s := &Store{
		parser:         parser,
		maxEntries:     DefaultMaxEntries,
		maxMemoryBytes: DefaultMaxMemoryBytes,
		structures:     make(map[domain.Digest]*domain.CacheEntry[*domain.Structure]),
		graphs:         make(map[domain.Digest]*domain.CacheEntry[*domain.Graph]),
		pathIndex:      make(map[string]domain.Digest),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStructure returns the parsed structure for content, invoking the parser
// only when no entry exists for its digest. The path does not key the cache;
// it is recorded in the path index on every successful call so Invalidate
// and IsCached can resolve it later.
//
// A failed parse inserts nothing: no entry, no path mapping, no recency
// slot. The caller sees the parser's error as-is.
func (s *Store) GetStructure(path, content string) (*domain.Structure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest := domain.HashContent(content)

	if entry, ok := s.structures[digest]; ok {
		s.hits++
		entry.Touch(time.Now())
		s.touchRecency(digest)
		s.pathIndex[path] = digest
		return entry.Data, nil
	}

	s.misses++
	structure, err := s.parser.Parse(content, path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &domain.CacheEntry[*domain.Structure]{
		Digest:         digest,
		Data:           structure,
		CreatedAt:      now,
		LastAccessedAt: now,
		SizeEstimate:   domain.EstimateSize(structure),
	}
	s.structures[digest] = entry
	s.pathIndex[path] = digest
	s.memoryUsage += entry.SizeEstimate
	s.touchRecency(digest)
	s.evict()

	return structure, nil
}

// GetGraph returns the navigation graph cached under digest, calling build
// only when no entry exists. Callers obtain the digest from a prior
// GetStructure round trip; the store never re-derives it. build runs inside
// the store lock, so two racing callers cannot derive the same graph twice.
//
// A failed build inserts nothing and the error is returned as-is.
func (s *Store) GetGraph(digest domain.Digest, build func() (*domain.Graph, error)) (*domain.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.graphs[digest]; ok {
		s.hits++
		entry.Touch(time.Now())
		s.touchRecency(digest)
		return entry.Data, nil
	}

	s.misses++
	graph, err := build()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &domain.CacheEntry[*domain.Graph]{
		Digest:         digest,
		Data:           graph,
		CreatedAt:      now,
		LastAccessedAt: now,
		SizeEstimate:   domain.EstimateSize(graph),
	}
	s.graphs[digest] = entry
	s.memoryUsage += entry.SizeEstimate
	s.touchRecency(digest)
	s.evict()

	return graph, nil
}

// Invalidate drops path's mapping and whatever entries its recorded digest
// owns in both tables. Other paths mapped to the same digest keep their
// mappings and will re-parse on their next access. Unknown paths are a
// no-op.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest, ok := s.pathIndex[path]
	if !ok {
		return
	}
	s.removeDigest(digest)
	delete(s.pathIndex, path)
}

// Clear empties every table and resets the memory account. Hit and miss
// counters survive; they describe the session, not the current contents.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Stats reports a point-in-time view of the counters.
func (s *Store) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.CacheStats{
		Hits:           s.hits,
		Misses:         s.misses,
		StructureCount: len(s.structures),
		GraphCount:     len(s.graphs),
		MemoryUsage:    s.memoryUsage,
	}
}

// IsCached reports whether path currently resolves to a live structure
// entry. A path whose digest was evicted is not cached, even though the path
// index still remembers the digest.
func (s *Store) IsCached(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest, ok := s.pathIndex[path]
	if !ok {
		return false
	}
	_, live := s.structures[digest]
	return live
}

// Digest returns the digest recorded for path, if any. The mapping can
// outlive the entry it points at; use IsCached to check liveness.
func (s *Store) Digest(path string) (domain.Digest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest, ok := s.pathIndex[path]
	return digest, ok
}

// HasStructure reports whether a structure entry exists for digest. It
// touches neither the counters nor the recency order.
func (s *Store) HasStructure(digest domain.Digest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.structures[digest]
	return ok
}

// HasGraph reports whether a graph entry exists for digest. It touches
// neither the counters nor the recency order.
func (s *Store) HasGraph(digest domain.Digest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.graphs[digest]
	return ok
}

// touchRecency moves digest to the most-recent end, appending it if absent.
// Callers must hold mu.
func (s *Store) touchRecency(digest domain.Digest) {
	for i, d := range s.recency {
		if d == digest {
			copy(s.recency[i:], s.recency[i+1:])
			s.recency[len(s.recency)-1] = digest
			return
		}
	}
	s.recency = append(s.recency, digest)
}

// removeRecency deletes digest from the recency order if present. Callers
// must hold mu.
func (s *Store) removeRecency(digest domain.Digest) {
	for i, d := range s.recency {
		if d == digest {
			s.recency = append(s.recency[:i], s.recency[i+1:]...)
			return
		}
	}
}

// removeDigest drops digest's entries from both tables, credits their sizes
// back to the memory account and forgets its recency slot. Path mappings are
// the caller's concern. Callers must hold mu.
func (s *Store) removeDigest(digest domain.Digest) {
	if entry, ok := s.structures[digest]; ok {
		s.memoryUsage -= entry.SizeEstimate
		delete(s.structures, digest)
	}
	if entry, ok := s.graphs[digest]; ok {
		s.memoryUsage -= entry.SizeEstimate
		delete(s.graphs, digest)
	}
	s.removeRecency(digest)
}

// evict brings the store back under its limits after an insertion. The entry
// count pass runs to completion before the memory pass starts; each pass
// drops the least recently used digest until its own limit is met. Evicted
// digests keep their path index mappings. Callers must hold mu.
func (s *Store) evict() {
	// 1. Entry count. The recency length counts cached digests, not table
	// rows, so a digest in both tables costs one slot.
	for len(s.recency) > s.maxEntries {
		s.evictOldest()
	}

	// 2. Memory, over whatever the count pass left behind. A single entry
	// larger than the limit evicts everything, itself included.
	for s.memoryUsage > s.maxMemoryBytes && len(s.recency) > 0 {
		s.evictOldest()
	}
}

// evictOldest removes the least recently used digest and its entries.
// Callers must hold mu and ensure recency is non-empty.
func (s *Store) evictOldest() {
	oldest := s.recency[0]
	s.recency = s.recency[1:]

	if entry, ok := s.structures[oldest]; ok {
		s.memoryUsage -= entry.SizeEstimate
		delete(s.structures, oldest)
	}
	if entry, ok := s.graphs[oldest]; ok {
		s.memoryUsage -= entry.SizeEstimate
		delete(s.graphs, oldest)
	}
}

// reset empties the tables and the memory account without touching the hit
// and miss counters. Callers must hold mu.
func (s *Store) reset() {
	s.structures = make(map[domain.Digest]*domain.CacheEntry[*domain.Structure])
	s.graphs = make(map[domain.Digest]*domain.CacheEntry[*domain.Graph])
	s.pathIndex = make(map[string]domain.Digest)
	s.recency = s.recency[:0]
	s.memoryUsage = 0
}
