// Package snapstore selects the snapshot persistence backend from
// configuration: a checksummed JSON file, a BadgerDB database, or a no-op
// store when persistence is switched off.
package snapstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/adapters/snapstore/badgerstore"
	"go.scriptor.dev/stash/internal/adapters/snapstore/filestore"
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot store Graft node.
const NodeID graft.ID = "adapter.snapstore"

func init() {
	graft.Register(graft.Node[ports.SnapshotStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.SnapshotStore, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			switch cfg.Snapshot.Backend {
			case domain.SnapshotBackendFile:
				return filestore.NewStore(cfg.Snapshot.Dir), nil
			case domain.SnapshotBackendBadger:
				return badgerstore.Open(cfg.Snapshot.Dir)
			case domain.SnapshotBackendOff:
				return Noop{}, nil
			default:
				// Config validation rejects unknown backends before the
				// graph runs, so this only fires on a programming error.
				return nil, zerr.With(domain.ErrConfigInvalid, "snapshot_backend", cfg.Snapshot.Backend)
			}
		},
	})
}
