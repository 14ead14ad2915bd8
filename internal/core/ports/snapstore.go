package ports

import (
	"context"

	"go.scriptor.dev/stash/internal/core/domain"
)

// SnapshotStore is the external key-value collaborator that persists cache
// snapshots across sessions. Failures propagate to the caller untouched;
// none of the methods retry.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapstore.go -destination=mocks/mock_snapstore.go -package=mocks
type SnapshotStore interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the most recent snapshot.
	// Returns nil, nil if no snapshot has been saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Clear removes any persisted snapshot.
	Clear(ctx context.Context) error

	// Available reports whether the backend can currently serve requests.
	Available() bool
}
