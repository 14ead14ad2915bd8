package domain

import (
	"encoding/json"
	"time"
)

// SnapshotVersion is the persisted snapshot layout this build reads and
// writes. Consumers must check Metadata.Version before trusting the shape of
// entry payloads.
const SnapshotVersion = 1

// SnapshotEntry is one cache entry flattened for persistence. Data holds the
// artifact serialized at export time, so a snapshot never aliases live cache
// memory.
type SnapshotEntry struct {
	Digest         Digest          `json:"digest"`
	Data           json.RawMessage `json:"data"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	SizeEstimate   int64           `json:"size_estimate"`
}

// PathEntry records one path to digest mapping.
type PathEntry struct {
	Path   string `json:"path"`
	Digest Digest `json:"digest"`
}

// SnapshotMetadata carries the bookkeeping for a snapshot: layout version,
// save time and the recency order at export (oldest first).
type SnapshotMetadata struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Recency []Digest  `json:"recency"`
}

// Snapshot is the flattened, order-independent serialization of a cache
// store's full state, suitable for storage and exact reconstruction.
type Snapshot struct {
	StructureEntries []SnapshotEntry  `json:"structure_entries"`
	GraphEntries     []SnapshotEntry  `json:"graph_entries"`
	PathEntries      []PathEntry      `json:"path_entries"`
	Metadata         SnapshotMetadata `json:"metadata"`
}
