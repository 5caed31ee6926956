package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/navstack/internal/config"
	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
)

// RunOptions contains the flags shared by every command.
type RunOptions struct {
	ConfigPath string
	Debug      bool
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// loadConfig reads the configuration and builds the application logger.
// --debug forces the debug level.
func loadConfig(opts RunOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(level), nil
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.Debug("Dispatch", "kind", e.Kind, "depth", e.Depth, "effects", e.Effects, "err", e.Err)
		},
		OnStale: func(ctx context.Context, e *domain.StaleEvent) {
			logger.Debug("Stale Action", "id", e.ID, "action", e.Action)
		},
		OnRebuild: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.Debug("Rebuild", "depth", len(e.IDs), "created", e.Created, "released", e.Released, "animated", e.Animated)
		},
		OnRefresh: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.Debug("Refresh", "depth", len(e.IDs))
		},
		OnResync: func(ctx context.Context, e *domain.ResyncEvent) {
			logger.Debug("Resync", "from", len(e.Previous), "to", len(e.Shown))
		},
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
