package watcher

import (
	"context"

	"github.com/grindlemire/graft"

	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// NodeID is the unique identifier for the watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewWatcher(DefaultWindow, cfg.Include, log), nil
		},
	})
}
