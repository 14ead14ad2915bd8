package domain

import "time"

// CacheEntry wraps a derived artifact with its cache accounting metadata.
// An entry is owned exclusively by the map that holds it and is immutable
// once stored, except for LastAccessedAt which is updated in place on hits.
// SizeEstimate is computed once at insertion and never recomputed.
type CacheEntry[T any] struct {
	Digest         Digest    `json:"digest"`
	Data           T         `json:"data"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	SizeEstimate   int64     `json:"size_estimate"`
}

// Touch records an access at the given time.
func (e *CacheEntry[T]) Touch(now time.Time) {
	e.LastAccessedAt = now
}
