// Package redis publishes navigation events on a Redis pub/sub channel so
// processes other than the host can follow the stack.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// Event types carried in Event.Type.
const (
	TypeDispatch = "dispatch"
	TypeStale    = "stale"
	TypeRebuild  = "rebuild"
	TypeRefresh  = "refresh"
	TypeResync   = "resync"
)

const (
	DefaultChannel = "navstack:events"
	DefaultBuffer  = 256
)

// Event is one message on the feed. Data holds the JSON encoding of the
// matching domain event.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Feed buffers engine events and publishes them from Run.
// Hooks never block the dispatch loop; events beyond the buffer are dropped.
type Feed struct {
	client  *backend.Client
	channel string
	events  chan Event
	dropped atomic.Int64
	logger  *slog.Logger
	bufSize int
}

type Option func(*Feed)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(f *Feed) {
		f.channel = channel
	}
}

// WithBuffer sets how many events may wait for publication.
func WithBuffer(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.bufSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		f.logger = logger
	}
}

// New connects to the Redis server at url (redis://host:port/db) and
// checks the connection.
func New(ctx context.Context, url string, opts ...Option) (*Feed, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := backend.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewFromClient(client, opts...), nil
}

// NewFromClient creates a feed on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Feed {
	f := &Feed{
		client:  client,
		channel: DefaultChannel,
		bufSize: DefaultBuffer,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.events = make(chan Event, f.bufSize)
	return f
}

// Channel returns the pub/sub channel the feed publishes on.
func (f *Feed) Channel() string {
	return f.channel
}

// Dropped returns how many events were discarded because the buffer was full.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Hooks returns engine hooks that enqueue every event.
func (f *Feed) Hooks() domain.Hooks {
	return domain.Hooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) { f.enqueue(TypeDispatch, e) },
		OnStale:    func(_ context.Context, e *domain.StaleEvent) { f.enqueue(TypeStale, e) },
		OnRebuild:  func(_ context.Context, e *domain.ReconcileEvent) { f.enqueue(TypeRebuild, e) },
		OnRefresh:  func(_ context.Context, e *domain.ReconcileEvent) { f.enqueue(TypeRefresh, e) },
		OnResync:   func(_ context.Context, e *domain.ResyncEvent) { f.enqueue(TypeResync, e) },
	}
}

func (f *Feed) enqueue(typ string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		f.logger.Error("failed to encode event", "type", typ, "err", err)
		return
	}
	select {
	case f.events <- Event{Type: typ, Data: data}:
	default:
		f.dropped.Inc()
	}
}

// Run publishes queued events until ctx is done.
// Publish failures are logged and do not stop the feed.
func (f *Feed) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-f.events:
			msg, err := json.Marshal(e)
			if err != nil {
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = f.client.Publish(pubCtx, f.channel, msg).Err()
			cancel()
			if err != nil && ctx.Err() == nil {
				f.logger.Warn("failed to publish event", "type", e.Type, "channel", f.channel, "err", err)
			}
		}
	}
}

// Health checks if the Redis connection is healthy.
func (f *Feed) Health(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (f *Feed) Close() error {
	return f.client.Close()
}

// Subscribe follows the feed published on channel. The returned channel is
// closed when ctx ends or the stop function is called.
func Subscribe(ctx context.Context, client *backend.Client, channel string) (<-chan Event, func() error, error) {
	ps := client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, ps.Close, nil
}
