package domain

import "encoding/json"

// fallbackSizeEstimate is charged to values that cannot be serialized for
// measurement.
const fallbackSizeEstimate int64 = 1024

// EstimateSize returns a cheap, deterministic over-approximation of the
// in-memory footprint of v in bytes, for cache accounting. The estimate is
// the serialized length doubled, which deliberately overshoots so the memory
// budget errs on the side of evicting early. Never zero or negative.
func EstimateSize(v any) int64 {
	data, err := json.Marshal(v)
	if err != nil {
		return fallbackSizeEstimate
	}
	return int64(len(data)) * 2
}
