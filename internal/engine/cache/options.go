package cache

// Defaults applied by New when no Option overrides them. They match the
// zero-configuration behavior of the editor: roomy enough for a mid-sized
// project, small enough to forget about.
const (
	// DefaultMaxEntries caps how many distinct digests the store keeps.
	DefaultMaxEntries = 100
	// DefaultMaxMemoryBytes caps the summed size estimates of live entries.
	DefaultMaxMemoryBytes int64 = 50 << 20
)

// Option customizes a Store at construction time.
type Option func(*Store)

// WithMaxEntries caps how many digests the store keeps before evicting.
// Values below one are ignored.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithMaxMemoryBytes caps the summed size estimates of cached entries.
// Values below one are ignored.
func WithMaxMemoryBytes(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxMemoryBytes = n
		}
	}
}
