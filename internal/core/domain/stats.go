package domain

// CacheStats is a point-in-time view of cache effectiveness and footprint.
// Hits and misses are monotonically non-decreasing for the lifetime of a
// store; Clear does not reset them.
type CacheStats struct {
	Hits           uint64 `json:"hits"`
	Misses         uint64 `json:"misses"`
	StructureCount int    `json:"structure_count"`
	GraphCount     int    `json:"graph_count"`
	MemoryUsage    int64  `json:"memory_usage"`
}

// HitRate returns the percentage of lookups served from cache, or 0 when no
// lookup has happened yet.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
