package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
)

// ErrUnroutable is returned for actions the reducer pipeline does not handle.
var ErrUnroutable = errors.New("action cannot be routed to a reducer")

// Pipeline composes the item router, the intent translator and the stack
// reducer into a single pass, selected by one switch on the action tag.
type Pipeline struct {
	router     *Router
	translator *Translator
	logger     *slog.Logger
	hooks      domain.Hooks
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// NewPipeline creates a pipeline for the variants in reg, minting new
// identities with mint.
func NewPipeline(reg *registry.Registry, mint domain.Minter, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.router = NewRouter(reg, p.logger, p.hooks)
	p.translator = NewTranslator(reg, mint)
	return p
}

// Step runs one action through the reducers and returns the new stack plus
// the effects to schedule.
// If the resulting stack breaks an invariant, the original stack is returned
// together with an error wrapping domain.ErrInvariant.
func (p *Pipeline) Step(ctx context.Context, stack domain.Stack, action domain.Action) (domain.Stack, []domain.Effect, error) {
	var (
		next    domain.Stack
		effects []domain.Effect
	)

	switch a := action.(type) {
	case domain.Set, domain.Push, domain.Pop, domain.PopToRoot:
		next, effects = ReduceStack(stack, a)

	case domain.ItemAction:
		updated, effect, ok := p.router.Reduce(ctx, stack, a)
		next = updated
		if effect != nil {
			effects = append(effects, effect)
		}
		if ok {
			if generic := p.translator.Translate(updated, a); generic != nil {
				p.logger.Debug("navigation intent", "from", a.ID, "action", domain.Kind(a), "stack_action", domain.Kind(generic))
				var more []domain.Effect
				next, more = ReduceStack(updated, generic)
				effects = append(effects, more...)
			}
		}

	default:
		return stack, nil, fmt.Errorf("%w: %s", ErrUnroutable, domain.Kind(action))
	}

	if err := next.Validate(); err != nil {
		p.logger.Error("reducer pass rejected", "action", domain.Kind(action), "err", err)
		return stack, nil, fmt.Errorf("%w: after %s: %w", domain.ErrInvariant, domain.Kind(action), err)
	}
	return next, effects, nil
}
