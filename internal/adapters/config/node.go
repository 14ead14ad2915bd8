package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
)

// NodeID is the unique identifier for the configuration Graft node. It
// yields the fully resolved domain.Config every other node reads.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[domain.Config]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (domain.Config, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return domain.Config{}, zerr.Wrap(err, "failed to get working directory")
			}
			return Load(cwd, overridesFromContext(ctx))
		},
	})
}
