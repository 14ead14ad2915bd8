package ports

import "context"

// Watcher reports script file changes so cached artifacts can be
// invalidated. The cache core never depends on it; only the session layer
// does.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch blocks delivering change notifications for files under root to
	// onChange until ctx is cancelled. onChange is called from a single
	// goroutine; bursts of events for one path are collapsed.
	Watch(ctx context.Context, root string, onChange func(path string)) error
}
