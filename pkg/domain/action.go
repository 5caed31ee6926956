package domain

// Action is the closed set of values delivered to the dispatch loop.
//
// Generic stack actions (Set, Push, Pop, PopToRoot) only touch the shape of
// the stack. ItemAction targets the payload of a single item by identity.
type Action interface {
	isAction()
}

// InnerAction is an action of one payload variant's own alphabet.
type InnerAction interface {
	ActionName() string
}

// Set replaces the whole stack.
type Set struct {
	Items Stack
}

// Push appends an item. Its identity must be freshly minted.
type Push struct {
	Item Item
}

// Pop removes the deepest item. The root is never popped.
type Pop struct{}

// PopToRoot truncates the stack to its root.
type PopToRoot struct{}

// ItemAction routes Inner to the item identified by ID.
type ItemAction struct {
	ID    ID
	Inner InnerAction
}

// Resync reports the identity sequence a presentation surface is showing
// after a change it performed on its own (e.g. an interactive back gesture).
// It is resolved into a Set by the reconciler and never reaches the reducers.
type Resync struct {
	Shown []ID
}

func (Set) isAction()        {}
func (Push) isAction()       {}
func (Pop) isAction()        {}
func (PopToRoot) isAction()  {}
func (ItemAction) isAction() {}
func (Resync) isAction()     {}

// Kind returns a short, stable label for an action, used in logs and metrics.
func Kind(a Action) string {
	switch a := a.(type) {
	case Set:
		return "set"
	case Push:
		return "push"
	case Pop:
		return "pop"
	case PopToRoot:
		return "pop_to_root"
	case ItemAction:
		if a.Inner == nil {
			return "item"
		}
		return "item:" + a.Inner.ActionName()
	case Resync:
		return "resync"
	default:
		return "unknown"
	}
}

// Intent is the stack change a navigation-shaped item action asks for.
// Variants return an Intent from their intent function; the engine turns it
// into a generic stack action.
type Intent interface {
	isIntent()
}

// PushIntent asks for a new item carrying Payload to be pushed.
type PushIntent struct {
	Payload Payload
}

// PopIntent asks for the deepest item to be popped.
type PopIntent struct{}

// PopToRootIntent asks for the stack to be truncated to its root.
type PopToRootIntent struct{}

func (PushIntent) isIntent()      {}
func (PopIntent) isIntent()       {}
func (PopToRootIntent) isIntent() {}
