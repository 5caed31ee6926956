package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/navstack/pkg/adapters/http"
	redisadapter "github.com/aretw0/navstack/pkg/adapters/redis"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout gives outstanding requests a deadline on shutdown.
const ShutdownTimeout = 5 * time.Second

// Serve exposes the demo engine through the headless HTTP surface until
// ctx is done.
func Serve(ctx context.Context, opts RunOptions) error {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.New(reg)

	var hooks []domain.Hooks
	var feed *redisadapter.Feed
	if cfg.Redis.URL != "" {
		feed, err = redisadapter.New(ctx, cfg.Redis.URL,
			redisadapter.WithChannel(cfg.Redis.Channel),
			redisadapter.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer feed.Close()
		hooks = append(hooks, feed.Hooks())
		logger.Info("Publishing events", "channel", feed.Channel())
	}

	surface := httpadapter.NewSurface(logger)
	engine, err := createEngine(cfg, surface, logger, metrics, hooks...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpadapter.NewHandler(engine, surface, metrics.Handler(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	if feed != nil {
		g.Go(func() error {
			return feed.Run(gctx)
		})
	}
	g.Go(func() error {
		logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}
