package domain

import "fmt"

// Variant tags one case of the payload union (one per screen type).
type Variant string

// Payload is the state of a single screen.
// Payloads are plain values: reducers return a new payload instead of mutating.
type Payload interface {
	Variant() Variant
}

// Item is one entry of the navigation stack.
type Item struct {
	ID      ID      `json:"id"`
	Title   string  `json:"title"`
	Payload Payload `json:"payload"`
}

// Stack is the ordered sequence of items. Index 0 is the root.
type Stack []Item

// IDs returns the identity sequence of the stack, in order.
func (s Stack) IDs() []ID {
	ids := make([]ID, len(s))
	for i, item := range s {
		ids[i] = item.ID
	}
	return ids
}

// Index returns the position of the item with the given identity, or -1.
func (s Stack) Index(id ID) int {
	for i, item := range s {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the item with the given identity.
func (s Stack) Find(id ID) (Item, bool) {
	if i := s.Index(id); i >= 0 {
		return s[i], true
	}
	return Item{}, false
}

// Root returns the first item. The stack must not be empty.
func (s Stack) Root() Item {
	return s[0]
}

// Top returns the last (deepest) item. The stack must not be empty.
func (s Stack) Top() Item {
	return s[len(s)-1]
}

// Clone returns a copy that shares no backing array with s.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// Validate checks the structural invariants: non-empty, every identity
// minted, and identities unique within the sequence.
func (s Stack) Validate() error {
	if len(s) == 0 {
		return ErrEmptyStack
	}
	seen := make(map[ID]int, len(s))
	for i, item := range s {
		if item.ID.IsZero() {
			return fmt.Errorf("%w: position %d", ErrZeroID, i)
		}
		if j, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s at positions %d and %d", ErrDuplicateID, item.ID, j, i)
		}
		seen[item.ID] = i
	}
	return nil
}
