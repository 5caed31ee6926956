package domain

import (
	"context"
	"time"
)

// ReconcileMode tells how the presentation surface was brought up to date.
type ReconcileMode string

const (
	ReconcileRebuild ReconcileMode = "rebuild" // structural change, full list handed to the surface
	ReconcileRefresh ReconcileMode = "refresh" // same identities, in-place payload update
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
}

// DispatchEvent describes one completed reducer pass.
type DispatchEvent struct {
	EventBase
	Kind    string `json:"kind"`
	Depth   int    `json:"depth"`
	Effects int    `json:"effects"`
	Err     error  `json:"-"`
}

// StaleEvent describes an item action whose target is no longer on the stack.
type StaleEvent struct {
	EventBase
	ID     ID     `json:"id"`
	Action string `json:"action"`
}

// ReconcileEvent describes a change pushed to the presentation surface.
type ReconcileEvent struct {
	EventBase
	Mode     ReconcileMode `json:"mode"`
	IDs      []ID          `json:"ids"`
	Created  int           `json:"created,omitempty"`
	Released int           `json:"released,omitempty"`
	Animated bool          `json:"animated,omitempty"`
}

// ResyncEvent describes a stack replacement triggered by the surface itself.
type ResyncEvent struct {
	EventBase
	Previous []ID `json:"previous"`
	Shown    []ID `json:"shown"`
}

// Hooks defines callbacks for engine observability. Any field may be nil.
type Hooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnStale    func(context.Context, *StaleEvent)
	OnRebuild  func(context.Context, *ReconcileEvent)
	OnRefresh  func(context.Context, *ReconcileEvent)
	OnResync   func(context.Context, *ResyncEvent)
}

// Merge returns hooks calling h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnDispatch: chain(h.OnDispatch, other.OnDispatch),
		OnStale:    chain(h.OnStale, other.OnStale),
		OnRebuild:  chain(h.OnRebuild, other.OnRebuild),
		OnRefresh:  chain(h.OnRefresh, other.OnRefresh),
		OnResync:   chain(h.OnResync, other.OnResync),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
