package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// Surface is a headless presentation surface for remote clients.
// It keeps the displayed views in memory and broadcasts every change as a
// JSON-encoded domain.StackDiff to the subscribers of its stream.
type Surface struct {
	mu       sync.RWMutex
	views    []ports.View
	notifier ports.Notifier
	streams  *StreamManager
	logger   *slog.Logger
}

var (
	_ ports.Surface    = (*Surface)(nil)
	_ ports.Observable = (*Surface)(nil)
)

// NewSurface creates an empty headless surface.
func NewSurface(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		streams: NewStreamManager(logger),
		logger:  logger,
	}
}

// Streams returns the diff broadcaster.
func (s *Surface) Streams() *StreamManager {
	return s.streams
}

func (s *Surface) Shown() []domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return viewIDs(s.views)
}

func (s *Surface) SetViews(views []ports.View, animated bool) {
	s.mu.Lock()
	before := viewItems(s.views)
	s.views = append([]ports.View(nil), views...)
	after := viewItems(s.views)
	s.mu.Unlock()

	s.logger.Debug("views replaced", "depth", len(views), "animated", animated)
	s.broadcast(before, after)
}

func (s *Surface) Update(view ports.View) {
	s.mu.Lock()
	before := viewItems(s.views)
	found := false
	for i, v := range s.views {
		if v.ID == view.ID {
			s.views[i] = view
			found = true
			break
		}
	}
	after := viewItems(s.views)
	s.mu.Unlock()

	if !found {
		s.logger.Warn("update for a view not shown", "id", view.ID)
		return
	}
	s.broadcast(before, after)
}

func (s *Surface) Attach(n ports.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Views returns the displayed views, root first.
func (s *Surface) Views() []ports.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.View(nil), s.views...)
}

// Back performs the interactive back gesture of a remote client: the top
// view is removed by the surface itself and the attached notifier is told.
// The root view cannot be removed.
func (s *Surface) Back() ([]domain.ID, bool) {
	s.mu.Lock()
	if len(s.views) <= 1 {
		s.mu.Unlock()
		return nil, false
	}
	before := viewItems(s.views)
	s.views = s.views[:len(s.views)-1]
	after := viewItems(s.views)
	shown := viewIDs(s.views)
	n := s.notifier
	s.mu.Unlock()

	s.broadcast(before, after)
	if n != nil {
		n.ShownChanged(shown)
	}
	return shown, true
}

func (s *Surface) broadcast(before, after domain.Stack) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	b, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "err", err)
		return
	}
	s.streams.Broadcast(string(b))
}

func viewIDs(views []ports.View) []domain.ID {
	ids := make([]domain.ID, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func viewItems(views []ports.View) domain.Stack {
	items := make(domain.Stack, len(views))
	for i, v := range views {
		items[i] = v.Item
	}
	return items
}
