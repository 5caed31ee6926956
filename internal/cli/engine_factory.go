package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/config"
	"github.com/aretw0/navstack/internal/demo"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/observability"
	"github.com/aretw0/navstack/pkg/ports"
)

// createEngine wires the demo screens onto surface with the configured
// options. metrics may be nil.
func createEngine(cfg *config.Config, surface ports.Surface, logger *slog.Logger, metrics *observability.Metrics, hooks ...domain.Hooks) (*navstack.Engine, error) {
	opts := []navstack.Option{
		navstack.WithLogger(logger),
		navstack.WithAnimation(cfg.Animate),
		navstack.WithMaxEffects(cfg.MaxEffects),
		navstack.WithMetrics(metrics),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, navstack.WithHooks(createDebugHooks(logger)))
	}
	for _, h := range hooks {
		opts = append(opts, navstack.WithHooks(h))
	}

	engine, err := navstack.New(demo.NewRegistry(cfg.Counter.Delay), surface, demo.Root{}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
