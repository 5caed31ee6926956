package navstack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/internal/presentation"
	"github.com/aretw0/navstack/internal/runtime"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/observability"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/registry"
	"github.com/aretw0/navstack/pkg/runner"
	"go.uber.org/atomic"
)

// Engine is the high-level entry point of the library.
// It owns the stack and keeps a presentation surface in line with it,
// serializing every delivery on a single dispatch loop.
type Engine struct {
	reg        *registry.Registry
	surface    ports.Surface
	pipeline   *runtime.Pipeline
	reconciler *presentation.Reconciler
	loop       *runner.Loop
	state      atomic.Pointer[domain.Stack]

	mint       domain.Minter
	hooks      domain.Hooks
	metrics    *observability.Metrics
	logger     *slog.Logger
	animate    bool
	maxEffects int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMinter replaces the identity source (default: random UUIDs).
func WithMinter(mint domain.Minter) Option {
	return func(e *Engine) {
		e.mint = mint
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMetrics records engine activity on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithAnimation toggles animated structural transitions (default: true).
func WithAnimation(enabled bool) Option {
	return func(e *Engine) {
		e.animate = enabled
	}
}

// WithMaxEffects bounds the number of effects running at once.
func WithMaxEffects(n int) Option {
	return func(e *Engine) {
		e.maxEffects = n
	}
}

// New wires an engine whose stack starts with a single root item built
// from root. The registry is sealed; every variant must have a renderer.
// If surface implements ports.Observable, the engine attaches itself so
// that surface-originated changes are folded back into the stack.
func New(reg *registry.Registry, surface ports.Surface, root domain.Payload, opts ...Option) (*Engine, error) {
	if reg == nil || surface == nil || root == nil {
		return nil, errors.New("registry, surface and root payload are required")
	}

	e := &Engine{
		reg:     reg,
		surface: surface,
		mint:    domain.NewMinter(),
		animate: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	if _, ok := reg.Lookup(root.Variant()); !ok {
		return nil, fmt.Errorf("root payload: %w: %q", domain.ErrUnknownVariant, root.Variant())
	}
	if err := reg.RequireRenderers(); err != nil {
		return nil, err
	}
	reg.Seal()

	hooks := e.hooks.Merge(e.metrics.Hooks())
	e.pipeline = runtime.NewPipeline(reg, e.mint,
		runtime.WithLogger(e.logger),
		runtime.WithHooks(hooks),
	)
	e.reconciler = presentation.New(reg, surface,
		presentation.WithLogger(e.logger),
		presentation.WithHooks(hooks),
		presentation.WithAnimation(e.animate),
	)
	e.hooks = hooks

	initial := domain.Stack{reg.NewItem(e.mint(), root)}
	e.state.Store(&initial)

	e.loop = runner.New(e.step,
		runner.WithLogger(e.logger),
		runner.WithMaxEffects(e.maxEffects),
		runner.WithOnStart(e.start),
		runner.WithEffectHook(e.metrics.SetEffectsInFlight),
	)

	if o, ok := surface.(ports.Observable); ok {
		o.Attach(e)
	}
	return e, nil
}

// Run processes deliveries until ctx is done. The root item is presented,
// unanimated, before the first delivery. An invariant violation stops Run
// and is returned.
func (e *Engine) Run(ctx context.Context) error {
	return e.loop.Run(ctx)
}

// Dispatch enqueues an action without waiting.
func (e *Engine) Dispatch(a domain.Action) {
	e.loop.Dispatch(a)
}

// Send enqueues an action and waits until its reducer pass and the
// following reconciliation completed.
func (e *Engine) Send(ctx context.Context, a domain.Action) error {
	return e.loop.Send(ctx, a)
}

// ShownChanged is the surface notification entry point. It is safe to call
// from any goroutine, including from within Surface methods. The reported
// sequence only triggers a resync; the surface is read again when the
// resync is processed.
func (e *Engine) ShownChanged(shown []domain.ID) {
	e.loop.Dispatch(domain.Resync{Shown: append([]domain.ID(nil), shown...)})
}

// State returns a copy of the current stack.
func (e *Engine) State() domain.Stack {
	return e.state.Load().Clone()
}

// Sync waits until every action enqueued before the call, including
// surface notifications, has been applied. Pending effects are not awaited.
func (e *Engine) Sync(ctx context.Context) error {
	return e.loop.Sync(ctx)
}

// Idle waits until no delivery is queued and no effect is pending.
func (e *Engine) Idle(ctx context.Context) error {
	return e.loop.Idle(ctx)
}

// Registry returns the sealed variant registry.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

func (e *Engine) start(ctx context.Context) error {
	e.reconciler.Reconcile(ctx, *e.state.Load())
	return nil
}

// step is one complete pass: resolve, reduce, store, reconcile.
func (e *Engine) step(ctx context.Context, a domain.Action) ([]domain.Effect, error) {
	if _, ok := a.(domain.Resync); ok {
		// A pass queued ahead of the notification may already have
		// rebuilt the surface.
		set, changed := e.reconciler.Resync(ctx, e.surface.Shown())
		if !changed {
			return nil, nil
		}
		a = set
	}

	current := *e.state.Load()
	next, effects, err := e.pipeline.Step(ctx, current, a)

	if e.hooks.OnDispatch != nil {
		e.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now()},
			Kind:      domain.Kind(a),
			Depth:     len(next),
			Effects:   len(effects),
			Err:       err,
		})
	}
	if err != nil {
		return nil, err
	}

	e.state.Store(&next)
	e.reconciler.Reconcile(ctx, next)
	return effects, nil
}
