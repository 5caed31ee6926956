package presentation

import (
	"context"
	"testing"

	"github.com/aretw0/navstack/internal/demo"
	"github.com/aretw0/navstack/internal/testutils"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	reg     *registry.Registry
	mint    domain.Minter
	surface *testutils.Surface
	rec     *Reconciler
	events  []*domain.ReconcileEvent
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		reg:     demo.NewRegistry(0),
		mint:    domain.SequenceMinter(),
		surface: testutils.NewSurface(),
	}
	record := func(_ context.Context, e *domain.ReconcileEvent) { f.events = append(f.events, e) }
	opts = append([]Option{WithHooks(domain.Hooks{OnRebuild: record, OnRefresh: record})}, opts...)
	f.rec = New(f.reg, f.surface, opts...)
	return f
}

func (f *fixture) item(p domain.Payload) domain.Item {
	return f.reg.NewItem(f.mint(), p)
}

func TestReconcile_InitialPopulationIsNotAnimated(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})

	f.rec.Reconcile(context.Background(), domain.Stack{root})

	calls := f.surface.SetViewsCalls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Animated)
	assert.Equal(t, []domain.ID{root.ID}, calls[0].IDs)
	assert.Equal(t, []domain.ID{root.ID}, f.rec.Dispatched())
}

func TestReconcile_PushIsAnimatedAndReusesViews(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	counter := f.item(demo.Counter{})
	ctx := context.Background()

	f.rec.Reconcile(ctx, domain.Stack{root})
	first := f.surface.Views()[0]

	f.rec.Reconcile(ctx, domain.Stack{root, counter})

	calls := f.surface.SetViewsCalls()
	require.Len(t, calls, 2)
	assert.True(t, calls[1].Animated)
	assert.Equal(t, []domain.ID{root.ID, counter.ID}, calls[1].IDs)

	views := f.surface.Views()
	assert.Equal(t, first.Renderable, views[0].Renderable)
	require.Len(t, f.events, 2)
	assert.Equal(t, domain.ReconcileRebuild, f.events[1].Mode)
	assert.Equal(t, 1, f.events[1].Created)
	assert.Equal(t, 0, f.events[1].Released)
}

func TestReconcile_AnimationCanBeDisabled(t *testing.T) {
	f := newFixture(t, WithAnimation(false))
	root := f.item(demo.Root{})
	ctx := context.Background()

	f.rec.Reconcile(ctx, domain.Stack{root})
	f.rec.Reconcile(ctx, domain.Stack{root, f.item(demo.Counter{})})

	for _, call := range f.surface.SetViewsCalls() {
		assert.False(t, call.Animated)
	}
}

func TestReconcile_SameIdentitiesOnlyRefresh(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	counter := f.item(demo.Counter{})
	ctx := context.Background()

	f.rec.Reconcile(ctx, domain.Stack{root, counter})
	require.Len(t, f.surface.SetViewsCalls(), 1)

	bumped := f.reg.NewItem(counter.ID, demo.Counter{Count: 1})
	f.rec.Reconcile(ctx, domain.Stack{root, bumped})

	assert.Len(t, f.surface.SetViewsCalls(), 1, "no structural change")
	updates := f.surface.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, counter.ID, updates[0].ID)
	assert.Equal(t, demo.Counter{Count: 1}, updates[0].Item.Payload)
	assert.Equal(t, domain.ReconcileRefresh, f.events[len(f.events)-1].Mode)
}

func TestReconcile_UnchangedStackIsSilent(t *testing.T) {
	f := newFixture(t)
	stack := domain.Stack{f.item(demo.Root{})}
	ctx := context.Background()

	f.rec.Reconcile(ctx, stack)
	f.rec.Reconcile(ctx, stack)

	assert.Len(t, f.surface.SetViewsCalls(), 1)
	assert.Empty(t, f.surface.Updates())
	assert.Len(t, f.events, 1)
}

func TestReconcile_PopReleasesViews(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	a, b := f.item(demo.Counter{}), f.item(demo.Counter{Count: 2})
	ctx := context.Background()

	f.rec.Reconcile(ctx, domain.Stack{root, a, b})
	f.rec.Reconcile(ctx, domain.Stack{root})

	last := f.events[len(f.events)-1]
	assert.Equal(t, 2, last.Released)
	assert.Equal(t, []domain.ID{root.ID}, f.surface.Shown())
	assert.Len(t, f.rec.pool, 1)
}

func TestReconcile_UnregisteredRendererPanics(t *testing.T) {
	reg := registry.New().MustRegister(registry.Definition{
		Variant: demo.VariantRoot,
		Title:   registry.StaticTitle("Root"),
		Reduce:  demo.RootDefinition().Reduce,
	})
	rec := New(reg, testutils.NewSurface())
	item := reg.NewItem(domain.NewMinter()(), demo.Root{})

	assert.Panics(t, func() {
		rec.Reconcile(context.Background(), domain.Stack{item})
	})
}

func TestResync_BackGestureBecomesSet(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	a, b := f.item(demo.Counter{}), f.item(demo.Counter{Count: 5})
	ctx := context.Background()
	f.rec.Reconcile(ctx, domain.Stack{root, a, b})

	require.True(t, f.surface.Back())

	set, ok := f.rec.Resync(ctx, f.surface.Shown())
	require.True(t, ok)
	assert.Equal(t, []domain.ID{root.ID, a.ID}, set.Items.IDs())
	assert.Equal(t, a, set.Items[1])
}

func TestResync_MatchingSequenceIsNoop(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	ctx := context.Background()
	f.rec.Reconcile(ctx, domain.Stack{root})

	_, ok := f.rec.Resync(ctx, []domain.ID{root.ID})
	assert.False(t, ok)
}

func TestResync_IgnoresEmptyAndUnknown(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	ctx := context.Background()
	f.rec.Reconcile(ctx, domain.Stack{root, f.item(demo.Counter{})})

	_, ok := f.rec.Resync(ctx, nil)
	assert.False(t, ok, "root must survive")

	_, ok = f.rec.Resync(ctx, []domain.ID{root.ID, f.mint()})
	assert.False(t, ok, "unknown identity")
}

func TestResync_AppliedSetDoesNotRebuild(t *testing.T) {
	f := newFixture(t)
	root := f.item(demo.Root{})
	a, b := f.item(demo.Counter{}), f.item(demo.Counter{})
	ctx := context.Background()
	f.rec.Reconcile(ctx, domain.Stack{root, a, b})

	require.True(t, f.surface.Back())
	set, ok := f.rec.Resync(ctx, f.surface.Shown())
	require.True(t, ok)

	f.rec.Reconcile(ctx, set.Items)

	assert.Len(t, f.surface.SetViewsCalls(), 1, "surface already shows the result")
	assert.Len(t, f.rec.pool, 2)
	assert.Equal(t, []domain.ID{root.ID, a.ID}, f.rec.Dispatched())

	_, ok = f.rec.Resync(ctx, f.surface.Shown())
	assert.False(t, ok, "no feedback loop")
}
