package domain

import (
	"context"
	"time"
)

// Effect is asynchronous follow-up work. It yields at most one Action:
// returning nil means nothing is fed back into the loop.
type Effect func(ctx context.Context) Action

// ItemEffect is follow-up work owned by a single item's reducer.
// The inner action it yields is re-tagged with the item's identity.
type ItemEffect func(ctx context.Context) InnerAction

// Just returns an Effect that immediately yields a.
func Just(a Action) Effect {
	return func(context.Context) Action {
		return a
	}
}

// After returns an Effect that yields a once d has elapsed.
// It yields nothing if the context ends first.
func After(d time.Duration, a Action) Effect {
	return func(ctx context.Context) Action {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			return a
		}
	}
}

// ItemJust returns an ItemEffect that immediately yields a.
func ItemJust(a InnerAction) ItemEffect {
	return func(context.Context) InnerAction {
		return a
	}
}

// ItemAfter returns an ItemEffect that yields a once d has elapsed.
func ItemAfter(d time.Duration, a InnerAction) ItemEffect {
	return func(ctx context.Context) InnerAction {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			return a
		}
	}
}

// Tag lifts an item effect into a stack-level Effect addressed to id.
func (e ItemEffect) Tag(id ID) Effect {
	if e == nil {
		return nil
	}
	return func(ctx context.Context) Action {
		inner := e(ctx)
		if inner == nil {
			return nil
		}
		return ItemAction{ID: id, Inner: inner}
	}
}
