package domain

import "errors"

// ErrEmptyStack is returned when a stack would lose its root.
var ErrEmptyStack = errors.New("stack is empty")

// ErrDuplicateID is returned when the same identity appears twice in a stack.
var ErrDuplicateID = errors.New("duplicate item identity")

// ErrZeroID is returned when an item carries an identity that was never minted.
var ErrZeroID = errors.New("item identity not minted")

// ErrInvariant wraps any structural violation detected after a reducer pass.
var ErrInvariant = errors.New("stack invariant violated")

// ErrUnknownVariant signals a payload variant with no registered handler.
// The variant set is closed at composition time, so this is a programming error.
var ErrUnknownVariant = errors.New("unknown payload variant")
