// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.scriptor.dev/stash/internal/adapters/config"
	_ "go.scriptor.dev/stash/internal/adapters/fs"
	_ "go.scriptor.dev/stash/internal/adapters/logger"
	_ "go.scriptor.dev/stash/internal/adapters/script"
	_ "go.scriptor.dev/stash/internal/adapters/snapstore"
	_ "go.scriptor.dev/stash/internal/adapters/telemetry"
	_ "go.scriptor.dev/stash/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.scriptor.dev/stash/internal/app"
	_ "go.scriptor.dev/stash/internal/engine/cache"
	_ "go.scriptor.dev/stash/internal/engine/snapshot"
)
