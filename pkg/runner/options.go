package runner

import (
	"context"
	"log/slog"
)

// DefaultMaxEffects bounds the number of effects running at once.
const DefaultMaxEffects = 64

// Option defines a functional option for configuring the Loop.
type Option func(*Loop)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithMaxEffects bounds concurrently running effects.
// Extra effects wait in a backlog; they never block the loop.
// Non-positive values keep the default.
func WithMaxEffects(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxEffects = n
		}
	}
}

// WithOnStart runs fn on the loop goroutine before the first delivery.
// An error aborts Run.
func WithOnStart(fn func(context.Context) error) Option {
	return func(l *Loop) {
		l.onStart = fn
	}
}

// WithEffectHook is called with the number of running effects every time
// an effect starts or finishes.
func WithEffectHook(fn func(running int)) Option {
	return func(l *Loop) {
		l.effectHook = fn
	}
}
