package snapshot

import (
	"context"

	"github.com/grindlemire/graft"
	"go.scriptor.dev/stash/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/adapters/snapstore" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot manager Graft node.
const NodeID graft.ID = "engine.snapshot"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			snapstore.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			store, err := graft.Dep[ports.SnapshotStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewManager(store, log), nil
		},
	})
}
