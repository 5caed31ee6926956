package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
)

// Router pulls item-scoped actions back onto the stack: it finds the target
// item by identity, runs the reducer registered for its variant and writes the
// new payload back in place.
type Router struct {
	reg    *registry.Registry
	logger *slog.Logger
	hooks  domain.Hooks
}

// NewRouter creates a router over the given registry.
func NewRouter(reg *registry.Registry, logger *slog.Logger, hooks domain.Hooks) *Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Router{reg: reg, logger: logger, hooks: hooks}
}

// Reduce routes a to its target item.
// If the target is gone (popped while an effect was pending) the action is
// dropped: the stack is returned unchanged and ok is false.
// The returned effect re-tags whatever the item effect yields with a.ID.
func (r *Router) Reduce(ctx context.Context, stack domain.Stack, a domain.ItemAction) (next domain.Stack, effect domain.Effect, ok bool) {
	i := stack.Index(a.ID)
	if i < 0 {
		r.logger.Debug("stale item action dropped", "id", a.ID, "action", domain.Kind(a))
		if r.hooks.OnStale != nil {
			r.hooks.OnStale(ctx, &domain.StaleEvent{
				EventBase: domain.EventBase{Timestamp: time.Now()},
				ID:        a.ID,
				Action:    domain.Kind(a),
			})
		}
		return stack, nil, false
	}

	item := stack[i]
	def := r.reg.MustLookup(item.Payload.Variant())
	payload, itemEffect := def.Reduce(item.Payload, a.Inner)

	next = stack.Clone()
	next[i] = r.reg.NewItem(item.ID, payload)
	return next, itemEffect.Tag(item.ID), true
}
