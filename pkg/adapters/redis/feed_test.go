package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/demo"
	"github.com/aretw0/navstack/internal/testutils"
	"github.com/aretw0/navstack/pkg/adapters/redis"
	"github.com/aretw0/navstack/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func next(t *testing.T, events <-chan redis.Event) redis.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "feed closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return redis.Event{}
}

func TestFeed_PublishesHookEvents(t *testing.T) {
	_, client := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := redis.NewFromClient(client, redis.WithChannel("test:events"))
	events, stop, err := redis.Subscribe(ctx, client, "test:events")
	require.NoError(t, err)
	defer stop()
	go feed.Run(ctx)

	mint := domain.SequenceMinter()
	ids := []domain.ID{mint(), mint()}
	feed.Hooks().OnRebuild(ctx, &domain.ReconcileEvent{Mode: domain.ReconcileRebuild, IDs: ids, Created: 1})

	e := next(t, events)
	assert.Equal(t, redis.TypeRebuild, e.Type)

	var got domain.ReconcileEvent
	require.NoError(t, json.Unmarshal(e.Data, &got))
	assert.Equal(t, domain.ReconcileRebuild, got.Mode)
	assert.Equal(t, ids, got.IDs)
	assert.Equal(t, 1, got.Created)
}

func TestFeed_DropsWhenBufferIsFull(t *testing.T) {
	_, client := setup(t)
	feed := redis.NewFromClient(client, redis.WithBuffer(1))

	hooks := feed.Hooks()
	hooks.OnStale(context.Background(), &domain.StaleEvent{Action: "item:increment"})
	hooks.OnStale(context.Background(), &domain.StaleEvent{Action: "item:increment"})

	assert.Equal(t, int64(1), feed.Dropped())
}

func TestFeed_FollowsEngine(t *testing.T) {
	_, client := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := redis.NewFromClient(client)
	events, stop, err := redis.Subscribe(ctx, client, feed.Channel())
	require.NoError(t, err)
	defer stop()
	go feed.Run(ctx)

	surface := testutils.NewSurface()
	engine, err := navstack.New(demo.NewRegistry(time.Second), surface, demo.Root{},
		navstack.WithMinter(domain.SequenceMinter()),
		navstack.WithHooks(feed.Hooks()),
	)
	require.NoError(t, err)
	go engine.Run(ctx)
	require.NoError(t, engine.Idle(ctx))

	root := engine.State()[0].ID
	require.NoError(t, engine.Send(ctx, domain.ItemAction{ID: root, Inner: demo.PushCounter{}}))

	var types []string
	for len(types) < 3 {
		types = append(types, next(t, events).Type)
	}
	// initial population, then the push pass and its rebuild
	assert.Equal(t, []string{redis.TypeRebuild, redis.TypeDispatch, redis.TypeRebuild}, types)
}

func TestNew(t *testing.T) {
	mr, _ := setup(t)
	ctx := context.Background()

	feed, err := redis.New(ctx, "redis://"+mr.Addr()+"/0", redis.WithChannel("c"))
	require.NoError(t, err)
	defer feed.Close()
	assert.Equal(t, "c", feed.Channel())
	assert.NoError(t, feed.Health(ctx))

	_, err = redis.New(ctx, "not a url")
	assert.ErrorContains(t, err, "parse redis URL")
}
