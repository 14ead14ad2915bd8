package app

import (
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Components contains all the initialized application components. It is what
// the CLI layer receives from the Graft graph.
type Components struct {
	App    *App
	Logger ports.Logger
	Config domain.Config
}
