package cli

import (
	"context"
	"errors"
	"fmt"

	httpadapter "github.com/aretw0/navstack/pkg/adapters/http"
	"github.com/aretw0/navstack/pkg/adapters/mcp"
	"golang.org/x/sync/errgroup"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the demo engine as MCP tools over the given transport.
// addr is only used by the sse transport.
func ServeMCP(ctx context.Context, opts RunOptions, transport, addr string) error {
	if transport != TransportStdio && transport != TransportSSE {
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}

	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.HTTP.Addr
	}

	surface := httpadapter.NewSurface(logger)
	engine, err := createEngine(cfg, surface, logger, nil)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(engine, surface, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if transport == TransportSSE {
			return srv.ServeSSE(gctx, addr)
		}
		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger.Info("Starting MCP Server (Stdio)")
		err := srv.ServeStdio()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
