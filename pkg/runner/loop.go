package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrStopped is returned for deliveries that can no longer be processed.
	ErrStopped = errors.New("dispatch loop stopped")
	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("dispatch loop already running")
)

// StepFunc performs one complete pass for an action and returns the effects
// to schedule. An error stops the loop.
type StepFunc func(ctx context.Context, a domain.Action) ([]domain.Effect, error)

type delivery struct {
	action domain.Action
	done   chan error
}

// Loop is a single-consumer dispatch queue.
type Loop struct {
	step       StepFunc
	logger     *slog.Logger
	maxEffects int
	onStart    func(context.Context) error
	effectHook func(int)

	mu      sync.Mutex
	queue   []delivery
	backlog []domain.Effect
	active  int // effects holding a pool slot
	state   loopState
	wake    chan struct{}

	// outstanding counts queued deliveries plus scheduled effects.
	outstanding atomic.Int64
	running     atomic.Int64
}

type loopState int

const (
	stateIdle loopState = iota
	stateRunning
	stateStopped
)

// New creates a loop delivering actions to step.
func New(step StepFunc, opts ...Option) *Loop {
	l := &Loop{
		step:       step,
		logger:     logging.NewNop(),
		maxEffects: DefaultMaxEffects,
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.onStart != nil {
		// Idle also waits for the start hook.
		l.outstanding.Inc()
	}
	return l
}

// Dispatch enqueues an action and returns immediately.
// Actions dispatched after the loop stopped are dropped.
func (l *Loop) Dispatch(a domain.Action) {
	if !l.enqueue(delivery{action: a}) {
		l.logger.Debug("action dropped, loop stopped", "action", domain.Kind(a))
	}
}

// Send enqueues an action and waits until its pass completed.
// It returns the pass error, ErrStopped, or the context error.
func (l *Loop) Send(ctx context.Context, a domain.Action) error {
	done := make(chan error, 1)
	if !l.enqueue(delivery{action: a, done: done}) {
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync blocks until every delivery enqueued before it has been processed.
// Unlike Idle it does not wait for running or backlogged effects.
func (l *Loop) Sync(ctx context.Context) error {
	done := make(chan error, 1)
	if !l.enqueue(delivery{done: done}) {
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Idle blocks until no delivery is queued and no effect is pending.
func (l *Loop) Idle(ctx context.Context) error {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	for l.outstanding.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Running returns the number of effects currently executing.
func (l *Loop) Running() int {
	return int(l.running.Load())
}

// Run processes deliveries until ctx is done or a step fails.
// Effects observe ctx and are awaited before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case stateRunning:
		l.mu.Unlock()
		return ErrRunning
	case stateStopped:
		l.mu.Unlock()
		return ErrStopped
	}
	l.state = stateRunning
	l.mu.Unlock()

	var effects errgroup.Group
	defer l.shutdown(&effects)

	if l.onStart != nil {
		err := l.onStart(ctx)
		l.outstanding.Dec()
		if err != nil {
			return err
		}
	}

	l.logger.Debug("dispatch loop started", "max_effects", l.maxEffects)
	for {
		if ctx.Err() != nil {
			l.logger.Debug("dispatch loop stopping", "reason", ctx.Err())
			return nil
		}

		l.schedule(ctx, &effects)

		d, ok := l.next()
		if !ok {
			select {
			case <-ctx.Done():
			case <-l.wake:
			}
			continue
		}

		if d.action == nil {
			// barrier from Sync
			if d.done != nil {
				d.done <- nil
			}
			l.outstanding.Dec()
			continue
		}

		scheduled, err := l.step(ctx, d.action)
		if err == nil {
			l.mu.Lock()
			for _, eff := range scheduled {
				if eff == nil {
					continue
				}
				l.outstanding.Inc()
				l.backlog = append(l.backlog, eff)
			}
			l.mu.Unlock()
		}
		if d.done != nil {
			d.done <- err
		}
		l.outstanding.Dec()

		if err != nil {
			l.logger.Error("dispatch failed", "action", domain.Kind(d.action), "err", err)
			return err
		}
	}
}

func (l *Loop) enqueue(d delivery) bool {
	l.mu.Lock()
	if l.state == stateStopped {
		l.mu.Unlock()
		return false
	}
	l.outstanding.Inc()
	l.queue = append(l.queue, d)
	l.mu.Unlock()

	l.signal()
	return true
}

func (l *Loop) next() (delivery, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return delivery{}, false
	}
	d := l.queue[0]
	l.queue[0] = delivery{}
	l.queue = l.queue[1:]
	return d, true
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// schedule starts as many backlog effects as there are free slots.
// A slot is released before the loop is woken, so a wake-up always finds it.
func (l *Loop) schedule(ctx context.Context, g *errgroup.Group) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.backlog) > 0 && l.active < l.maxEffects {
		eff := l.backlog[0]
		l.backlog[0] = nil
		l.backlog = l.backlog[1:]
		l.active++

		g.Go(func() error {
			l.effectStarted()
			defer l.effectFinished()
			if follow := eff(ctx); follow != nil && ctx.Err() == nil {
				l.Dispatch(follow)
			}
			return nil
		})
	}
}

func (l *Loop) effectStarted() {
	n := l.running.Inc()
	if l.effectHook != nil {
		l.effectHook(int(n))
	}
}

func (l *Loop) effectFinished() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	n := l.running.Dec()
	if l.effectHook != nil {
		l.effectHook(int(n))
	}
	l.outstanding.Dec()
	l.signal()
}

// shutdown rejects pending deliveries and waits for running effects.
func (l *Loop) shutdown(g *errgroup.Group) {
	l.mu.Lock()
	l.state = stateStopped
	pending := l.queue
	dropped := len(l.backlog)
	l.queue = nil
	l.backlog = nil
	l.mu.Unlock()

	for _, d := range pending {
		if d.done != nil {
			d.done <- ErrStopped
		}
	}
	l.outstanding.Sub(int64(len(pending) + dropped))

	_ = g.Wait()
	l.logger.Debug("dispatch loop stopped", "pending", len(pending), "abandoned_effects", dropped)
}
