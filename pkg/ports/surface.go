package ports

import "github.com/aretw0/navstack/pkg/domain"

// View is a presentation object: the renderable created for one item,
// together with the latest item snapshot it displays.
type View struct {
	ID         domain.ID
	Item       domain.Item
	Renderable any
}

// Surface is the imperative, stack-shaped presentation target.
// All methods are called from the dispatch loop goroutine.
type Surface interface {
	// Shown returns the identity sequence currently displayed, root first.
	Shown() []domain.ID

	// SetViews replaces the whole displayed list in one operation.
	SetViews(views []View, animated bool)

	// Update re-renders a displayed view in place, without structural change.
	Update(view View)
}

// Notifier receives the identity sequence a surface is showing after a
// structural change the surface performed itself.
type Notifier interface {
	ShownChanged(shown []domain.ID)
}

// Observable is implemented by surfaces that can change their shown
// sequence on their own. The engine attaches itself on construction.
type Observable interface {
	Attach(n Notifier)
}

// Dispatcher is the dispatch entry point exposed to the presentation layer.
type Dispatcher interface {
	Dispatch(a domain.Action)
}

// Screen is the renderable contract understood by the bundled hosts.
type Screen interface {
	// Body renders the payload as markdown.
	Body(p domain.Payload) string
	// Actions lists the named inner actions the screen offers.
	Actions() []string
}
