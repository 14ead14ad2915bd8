package logger

import (
	"context"

	"github.com/grindlemire/graft"

	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Log), nil
		},
	})
}
