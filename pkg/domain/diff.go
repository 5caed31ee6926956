package domain

import (
	"reflect"
)

// StackDiff represents the changes between two stacks.
// It is designed to be serialized to JSON for partial updates on remote surfaces.
type StackDiff struct {
	// Structural is true when the identity sequences differ (order or membership).
	Structural bool `json:"structural,omitempty"`

	// Added lists identities present only in the new stack.
	Added []ID `json:"added,omitempty"`

	// Removed lists identities present only in the old stack.
	Removed []ID `json:"removed,omitempty"`

	// Updated lists identities present in both whose payload changed.
	Updated []ID `json:"updated,omitempty"`
}

// Diff calculates the difference between oldStack and newStack.
// If oldStack is nil, everything in newStack counts as added (initial load).
// It returns nil when nothing changed.
func Diff(oldStack, newStack Stack) *StackDiff {
	diff := &StackDiff{
		Structural: !EqualIDs(oldStack.IDs(), newStack.IDs()),
	}

	old := make(map[ID]Item, len(oldStack))
	for _, item := range oldStack {
		old[item.ID] = item
	}

	present := make(map[ID]struct{}, len(newStack))
	for _, item := range newStack {
		present[item.ID] = struct{}{}
		prev, exists := old[item.ID]
		if !exists {
			diff.Added = append(diff.Added, item.ID)
			continue
		}
		if !reflect.DeepEqual(prev.Payload, item.Payload) {
			diff.Updated = append(diff.Updated, item.ID)
		}
	}

	for _, item := range oldStack {
		if _, exists := present[item.ID]; !exists {
			diff.Removed = append(diff.Removed, item.ID)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StackDiff) IsEmpty() bool {
	return !d.Structural &&
		len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Updated) == 0
}
