package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/muesli/termenv"
)

// Surface is a presentation surface printing to a terminal. Every change
// redraws a breadcrumb of the displayed titles and the body of the top view.
type Surface struct {
	mu       sync.Mutex
	w        io.Writer
	out      *termenv.Output
	render   func(string) (string, error)
	views    []ports.View
	notifier ports.Notifier
}

var (
	_ ports.Surface    = (*Surface)(nil)
	_ ports.Observable = (*Surface)(nil)
)

// Option configures the Surface.
type Option func(*Surface)

// WithRenderer sets the markdown renderer used for view bodies.
func WithRenderer(render func(string) (string, error)) Option {
	return func(s *Surface) {
		s.render = render
	}
}

// WithProfile forces a color profile (termenv.Ascii disables styling).
func WithProfile(p termenv.Profile) Option {
	return func(s *Surface) {
		s.out = termenv.NewOutput(s.w, termenv.WithProfile(p))
	}
}

// NewSurface creates a terminal surface writing to w.
func NewSurface(w io.Writer, opts ...Option) *Surface {
	s := &Surface{
		w:   w,
		out: termenv.NewOutput(w),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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
	grew := len(views) > len(s.views)
	s.views = append([]ports.View(nil), views...)

	if animated {
		marker := "◀"
		if grew {
			marker = "▶"
		}
		fmt.Fprintln(s.w, s.out.String(marker).Faint())
	}
	s.draw()
}

func (s *Surface) Update(view ports.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.views {
		if v.ID == view.ID {
			s.views[i] = view
			s.draw()
			return
		}
	}
}

func (s *Surface) Attach(n ports.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Top returns the top view.
func (s *Surface) Top() (ports.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) == 0 {
		return ports.View{}, false
	}
	return s.views[len(s.views)-1], true
}

// Back dismisses the top view the way a terminal user would, without the
// engine asking for it, then notifies the attached notifier.
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
	s.draw()
	n := s.notifier
	s.mu.Unlock()

	if n != nil {
		n.ShownChanged(ids)
	}
	return true
}

// draw must be called with s.mu held.
func (s *Surface) draw() {
	if len(s.views) == 0 {
		return
	}

	crumbs := make([]string, len(s.views))
	for i, v := range s.views {
		crumbs[i] = v.Item.Title
	}
	last := len(crumbs) - 1
	trail := s.out.String(strings.Join(crumbs[:last], " › ")).Faint().String()
	if last > 0 {
		trail += s.out.String(" › ").Faint().String()
	}
	trail += s.out.String(crumbs[last]).Bold().Foreground(s.out.Color("#a78bfa")).String()
	fmt.Fprintln(s.w, trail)

	top := s.views[last]
	screen, ok := top.Renderable.(ports.Screen)
	if !ok {
		fmt.Fprintln(s.w)
		return
	}

	body := screen.Body(top.Item.Payload)
	if s.render != nil {
		if rendered, err := s.render(body); err == nil {
			body = rendered
		}
	}
	fmt.Fprintln(s.w, strings.TrimSpace(body))

	actions := screen.Actions()
	if len(actions) == 0 {
		return
	}
	items := make([]string, len(actions))
	for i, a := range actions {
		items[i] = fmt.Sprintf("[%d] %s", i+1, a)
	}
	fmt.Fprintln(s.w, s.out.String(strings.Join(items, "  ")).Faint())
}
