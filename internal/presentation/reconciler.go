package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/registry"
)

// Reconciler keeps a presentation surface in line with the declarative stack.
// It owns a pool of views keyed by identity and issues the minimal change:
// an in-place update when only payloads moved, one full SetViews otherwise.
//
// A Reconciler is not safe for concurrent use; the dispatch loop drives it.
type Reconciler struct {
	reg        *registry.Registry
	surface    ports.Surface
	pool       map[domain.ID]ports.View
	dispatched []domain.ID
	animate    bool
	logger     *slog.Logger
	hooks      domain.Hooks
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(r *Reconciler) {
		r.hooks = hooks
	}
}

// WithAnimation toggles animated structural transitions (default: true).
// The initial population is never animated.
func WithAnimation(enabled bool) Option {
	return func(r *Reconciler) {
		r.animate = enabled
	}
}

// New creates a reconciler rendering through the variants of reg onto surface.
func New(reg *registry.Registry, surface ports.Surface, opts ...Option) *Reconciler {
	r := &Reconciler{
		reg:     reg,
		surface: surface,
		pool:    make(map[domain.ID]ports.View),
		animate: true,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatched returns the identity sequence last handed to the surface.
func (r *Reconciler) Dispatched() []domain.ID {
	return append([]domain.ID(nil), r.dispatched...)
}

// Reconcile brings the surface up to date with stack.
func (r *Reconciler) Reconcile(ctx context.Context, stack domain.Stack) {
	desired := stack.IDs()
	shown := r.surface.Shown()

	if domain.EqualIDs(desired, shown) {
		r.refresh(ctx, stack)
		r.release(stack)
	} else {
		r.rebuild(ctx, stack, len(shown) > 0)
	}
	r.dispatched = desired
}

// refresh pushes in-place updates for views whose payload changed.
func (r *Reconciler) refresh(ctx context.Context, stack domain.Stack) {
	diff := domain.Diff(r.snapshot(stack.IDs()), stack)
	if diff == nil {
		return
	}

	changed := make(map[domain.ID]bool, len(diff.Updated)+len(diff.Added))
	for _, id := range diff.Updated {
		changed[id] = true
	}
	// Shown by the surface but never pooled here: adopt it.
	for _, id := range diff.Added {
		changed[id] = true
	}

	for _, item := range stack {
		if !changed[item.ID] {
			continue
		}
		view, ok := r.pool[item.ID]
		if !ok {
			view = r.create(item)
		}
		view.Item = item
		r.pool[item.ID] = view
		r.surface.Update(view)
	}

	r.logger.Debug("surface refreshed", "updated", len(changed))
	if r.hooks.OnRefresh != nil {
		r.hooks.OnRefresh(ctx, &domain.ReconcileEvent{
			EventBase: domain.EventBase{Timestamp: time.Now()},
			Mode:      domain.ReconcileRefresh,
			IDs:       stack.IDs(),
		})
	}
}

// rebuild hands the complete new list of views to the surface at once.
func (r *Reconciler) rebuild(ctx context.Context, stack domain.Stack, hadViews bool) {
	views := make([]ports.View, len(stack))
	pool := make(map[domain.ID]ports.View, len(stack))
	created := 0

	for i, item := range stack {
		view, ok := r.pool[item.ID]
		if ok {
			view.Item = item
		} else {
			view = r.create(item)
			created++
		}
		views[i] = view
		pool[item.ID] = view
	}

	released := 0
	for id := range r.pool {
		if _, kept := pool[id]; !kept {
			released++
		}
	}
	r.pool = pool

	animated := r.animate && hadViews
	r.surface.SetViews(views, animated)

	r.logger.Debug("surface rebuilt",
		"depth", len(views),
		"created", created,
		"released", released,
		"animated", animated,
	)
	if r.hooks.OnRebuild != nil {
		r.hooks.OnRebuild(ctx, &domain.ReconcileEvent{
			EventBase: domain.EventBase{Timestamp: time.Now()},
			Mode:      domain.ReconcileRebuild,
			IDs:       stack.IDs(),
			Created:   created,
			Released:  released,
			Animated:  animated,
		})
	}
}

// create builds a new view through the variant renderer.
// A variant without renderer is a composition error and panics.
func (r *Reconciler) create(item domain.Item) ports.View {
	def := r.reg.MustLookup(item.Payload.Variant())
	if def.Render == nil {
		panic(fmt.Errorf("%w: no renderer for variant %q", registry.ErrIncomplete, def.Variant))
	}
	return ports.View{
		ID:         item.ID,
		Item:       item,
		Renderable: def.Render(item.ID, item.Payload),
	}
}

// release drops pooled views whose item left the stack while the surface
// already reflected the change on its own.
func (r *Reconciler) release(stack domain.Stack) {
	for id := range r.pool {
		if stack.Index(id) < 0 {
			delete(r.pool, id)
		}
	}
}

// snapshot returns the pooled items for ids, skipping identities not pooled.
func (r *Reconciler) snapshot(ids []domain.ID) domain.Stack {
	out := make(domain.Stack, 0, len(ids))
	for _, id := range ids {
		if view, ok := r.pool[id]; ok {
			out = append(out, view.Item)
		}
	}
	return out
}

// Resync turns a surface-originated shown sequence into a Set action.
// It compares identity sequences only, so content-only updates never loop
// back. A sequence that would drop the root, or that names identities this
// reconciler never presented, is ignored.
func (r *Reconciler) Resync(ctx context.Context, shown []domain.ID) (domain.Set, bool) {
	if domain.EqualIDs(shown, r.dispatched) {
		return domain.Set{}, false
	}
	if len(shown) == 0 {
		r.logger.Warn("surface reported an empty stack, keeping root", "previous", len(r.dispatched))
		return domain.Set{}, false
	}

	items := r.snapshot(shown)
	if len(items) != len(shown) {
		r.logger.Warn("surface reported unknown identities, ignoring", "shown", len(shown), "known", len(items))
		return domain.Set{}, false
	}

	r.logger.Debug("surface changed the stack", "from", len(r.dispatched), "to", len(shown))
	if r.hooks.OnResync != nil {
		r.hooks.OnResync(ctx, &domain.ResyncEvent{
			EventBase: domain.EventBase{Timestamp: time.Now()},
			Previous:  r.Dispatched(),
			Shown:     append([]domain.ID(nil), shown...),
		})
	}
	return domain.Set{Items: items}, true
}
