package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

const (
	ReaderNodeID  graft.ID = "adapter.fs.reader"
	ScannerNodeID graft.ID = "adapter.fs.scanner"
)

func init() {
	graft.Register(graft.Node[ports.ContentReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ContentReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.Scanner]{
		ID:        ScannerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.Scanner, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(cfg.Include), nil
		},
	})
}
