package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.scriptor.dev/stash/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/adapters/script"    //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
	"go.scriptor.dev/stash/internal/engine/cache"
	"go.scriptor.dev/stash/internal/engine/snapshot"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.ReaderNodeID,
			fs.ScannerNodeID,
			script.BuilderNodeID,
			watcher.NodeID,
			telemetry.NodeID,
			cache.NodeID,
			snapshot.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	reader, err := graft.Dep[ports.ContentReader](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[ports.GraphBuilder](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[*cache.Store](ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := graft.Dep[*snapshot.Manager](ctx)
	if err != nil {
		return nil, err
	}

	return New(store, snapshots, builder, reader, scanner, watch, tel, log, cfg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
		Config: cfg,
	}, nil
}
