package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// recorder is a StepFunc target remembering the order of deliveries.
type recorder struct {
	mu      sync.Mutex
	kinds   []string
	effects map[string][]domain.Effect
	fail    map[string]error
}

func newRecorder() *recorder {
	return &recorder{
		effects: make(map[string][]domain.Effect),
		fail:    make(map[string]error),
	}
}

func (r *recorder) step(_ context.Context, a domain.Action) ([]domain.Effect, error) {
	kind := domain.Kind(a)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	if err := r.fail[kind]; err != nil {
		return nil, err
	}
	return r.effects[kind], nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.kinds...)
}

func start(t *testing.T, l *runner.Loop) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func TestLoop_DeliversInOrder(t *testing.T) {
	rec := newRecorder()
	l := runner.New(rec.step)
	start(t, l)

	l.Dispatch(domain.Push{})
	l.Dispatch(domain.Pop{})
	require.NoError(t, l.Send(context.Background(), domain.PopToRoot{}))

	assert.Equal(t, []string{"push", "pop", "pop_to_root"}, rec.seen())
}

func TestLoop_DispatchBeforeRunIsQueued(t *testing.T) {
	rec := newRecorder()
	l := runner.New(rec.step)

	l.Dispatch(domain.Pop{})
	start(t, l)

	require.NoError(t, l.Idle(context.Background()))
	assert.Equal(t, []string{"pop"}, rec.seen())
}

func TestLoop_EffectFollowUpReentersQueue(t *testing.T) {
	rec := newRecorder()
	rec.effects["push"] = []domain.Effect{domain.After(5*time.Millisecond, domain.Pop{}), nil}
	l := runner.New(rec.step)
	start(t, l)

	l.Dispatch(domain.Push{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Idle(ctx))
	assert.Equal(t, []string{"push", "pop"}, rec.seen())
}

func TestLoop_EffectsAreBounded(t *testing.T) {
	var (
		mu      sync.Mutex
		peak    int
		release = make(chan struct{})
	)
	rec := newRecorder()
	block := func(ctx context.Context) domain.Action {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}
	rec.effects["push"] = []domain.Effect{block, block, block, block}

	l := runner.New(rec.step,
		runner.WithMaxEffects(2),
		runner.WithEffectHook(func(running int) {
			mu.Lock()
			defer mu.Unlock()
			if running > peak {
				peak = running
			}
		}),
	)
	start(t, l)

	require.NoError(t, l.Send(context.Background(), domain.Push{}))
	assert.Eventually(t, func() bool { return l.Running() == 2 }, time.Second, time.Millisecond)

	// The loop keeps serving while the pool is saturated.
	require.NoError(t, l.Send(context.Background(), domain.Pop{}))

	close(release)
	require.NoError(t, l.Idle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, peak)
}

func TestLoop_SaturatedPoolDrainsBacklog(t *testing.T) {
	var ran atomic.Int64
	instant := func(context.Context) domain.Action {
		ran.Inc()
		return nil
	}
	rec := newRecorder()
	rec.effects["push"] = []domain.Effect{instant, instant, instant, instant, instant, instant}

	for i := 0; i < 200; i++ {
		l := runner.New(rec.step, runner.WithMaxEffects(1))
		cancel, _ := start(t, l)

		l.Dispatch(domain.Push{})

		ctx, stop := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, l.Idle(ctx), "backlog stalled on run %d", i)
		stop()
		cancel()
	}
	assert.Equal(t, int64(6*200), ran.Load())
}

func TestLoop_SyncDoesNotWaitForEffects(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	rec := newRecorder()
	rec.effects["push"] = []domain.Effect{func(ctx context.Context) domain.Action {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}}
	l := runner.New(rec.step)
	start(t, l)

	l.Dispatch(domain.Push{})
	l.Dispatch(domain.Pop{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Sync(ctx))
	assert.Equal(t, []string{"push", "pop"}, rec.seen())
	assert.Eventually(t, func() bool { return l.Running() == 1 }, time.Second, time.Millisecond)
}

func TestLoop_StepErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	rec := newRecorder()
	rec.fail["pop"] = boom
	l := runner.New(rec.step)
	_, errCh := start(t, l)

	err := l.Send(context.Background(), domain.Pop{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, <-errCh, boom)

	assert.ErrorIs(t, l.Send(context.Background(), domain.Push{}), runner.ErrStopped)
}

func TestLoop_CancelStopsGracefully(t *testing.T) {
	rec := newRecorder()
	rec.effects["push"] = []domain.Effect{domain.After(time.Hour, domain.Pop{})}
	l := runner.New(rec.step)
	cancel, errCh := start(t, l)

	require.NoError(t, l.Send(context.Background(), domain.Push{}))
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, []string{"push"}, rec.seen())
	assert.NoError(t, l.Idle(context.Background()))
}

func TestLoop_OnStartRunsFirst(t *testing.T) {
	rec := newRecorder()
	var order []string
	l := runner.New(rec.step, runner.WithOnStart(func(context.Context) error {
		order = append(order, "start")
		return nil
	}))
	l.Dispatch(domain.Pop{})
	start(t, l)

	require.NoError(t, l.Idle(context.Background()))
	order = append(order, rec.seen()...)
	assert.Equal(t, []string{"start", "pop"}, order)
}

func TestLoop_RunTwice(t *testing.T) {
	l := runner.New(newRecorder().step)
	start(t, l)
	require.NoError(t, l.Send(context.Background(), domain.Pop{}))

	assert.ErrorIs(t, l.Run(context.Background()), runner.ErrRunning)
}

func TestLoop_DispatchFromStepDoesNotBlock(t *testing.T) {
	var l *runner.Loop
	var kinds []string
	l = runner.New(func(_ context.Context, a domain.Action) ([]domain.Effect, error) {
		kinds = append(kinds, domain.Kind(a))
		if _, ok := a.(domain.Push); ok {
			// Surface callbacks run on the loop goroutine.
			l.Dispatch(domain.Pop{})
		}
		return nil, nil
	})
	start(t, l)

	l.Dispatch(domain.Push{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Idle(ctx))
	assert.Equal(t, []string{"push", "pop"}, kinds)
}
