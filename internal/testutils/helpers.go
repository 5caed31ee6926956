package testutils

import (
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// SetViewsCall records one structural replacement.
type SetViewsCall struct {
	IDs      []domain.ID
	Animated bool
}

// Surface is an in-memory presentation surface that records every call.
// It also implements ports.Observable so tests can simulate gestures.
type Surface struct {
	mu       sync.Mutex
	views    []ports.View
	sets     []SetViewsCall
	updates  []ports.View
	notifier ports.Notifier
}

// NewSurface returns an empty recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Shown() []domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]domain.ID, len(s.views))
	for i, v := range s.views {
		ids[i] = v.ID
	}
	return ids
}

func (s *Surface) SetViews(views []ports.View, animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append([]ports.View(nil), views...)
	ids := make([]domain.ID, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	s.sets = append(s.sets, SetViewsCall{IDs: ids, Animated: animated})
}

func (s *Surface) Update(view ports.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.views {
		if v.ID == view.ID {
			s.views[i] = view
			s.updates = append(s.updates, view)
			return
		}
	}
}

func (s *Surface) Attach(n ports.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Views returns a copy of the displayed views.
func (s *Surface) Views() []ports.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.View(nil), s.views...)
}

// SetViewsCalls returns every recorded structural replacement.
func (s *Surface) SetViewsCalls() []SetViewsCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SetViewsCall(nil), s.sets...)
}

// Updates returns every recorded in-place update.
func (s *Surface) Updates() []ports.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.View(nil), s.updates...)
}

// Back simulates an interactive back gesture: the last view is dropped
// by the surface itself and the attached notifier is told.
// It reports false when only the root is displayed.
func (s *Surface) Back() bool {
	s.mu.Lock()
	if len(s.views) <= 1 {
		s.mu.Unlock()
		return false
	}
	s.views = s.views[:len(s.views)-1]
	ids := make([]domain.ID, len(s.views))
	for i, v := range s.views {
		ids[i] = v.ID
	}
	n := s.notifier
	s.mu.Unlock()

	if n != nil {
		n.ShownChanged(ids)
	}
	return true
}
