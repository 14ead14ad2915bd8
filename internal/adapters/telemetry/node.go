package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.scriptor.dev/stash/internal/adapters/telemetry/progrock"
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// instrumentationName identifies this module to the OTel tracer provider.
const instrumentationName = "go.scriptor.dev/stash"

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			switch cfg.Telemetry {
			case domain.TelemetryOff:
				return Noop{}, nil
			case domain.TelemetryProgress:
				return progrock.New(), nil
			case domain.TelemetryOTel:
				return NewOTelTracer(otel.Tracer(instrumentationName)), nil
			default:
				// Config validation rejects unknown modes before the graph
				// runs, so this only fires on a programming error.
				return nil, zerr.With(domain.ErrConfigInvalid, "telemetry", cfg.Telemetry)
			}
		},
	})
}
