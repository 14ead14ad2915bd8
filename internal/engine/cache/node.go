package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/adapters/script" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			script.ParserNodeID,
		},
		Run: func(ctx context.Context) (*Store, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			parser, err := graft.Dep[ports.Parser](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				parser,
				WithMaxEntries(cfg.Cache.MaxEntries),
				WithMaxMemoryBytes(cfg.Cache.MaxMemoryBytes()),
			), nil
		},
	})
}
