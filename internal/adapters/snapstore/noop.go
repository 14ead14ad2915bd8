package snapstore

import (
	"context"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Noop is the disabled backend. It reports itself unavailable, so the
// snapshot manager skips persistence entirely, and every operation succeeds
// without touching anything.
type Noop struct{}

var _ ports.SnapshotStore = Noop{}

// Available implements ports.SnapshotStore.
func (Noop) Available() bool {
	return false
}

// Save implements ports.SnapshotStore.
func (Noop) Save(context.Context, *domain.Snapshot) error {
	return nil
}

// Load implements ports.SnapshotStore.
func (Noop) Load(context.Context) (*domain.Snapshot, error) {
	return nil, nil
}

// Clear implements ports.SnapshotStore.
func (Noop) Clear(context.Context) error {
	return nil
}
