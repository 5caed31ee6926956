package demo

import (
	"time"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
)

// VariantCounter tags the counter screen.
const VariantCounter domain.Variant = "counter"

// DefaultDelay is how long IncrementLater waits before incrementing.
const DefaultDelay = time.Second

// Counter is the payload of a counter screen.
type Counter struct {
	Count int `json:"count"`
}

func (Counter) Variant() domain.Variant { return VariantCounter }

// CounterAction is the action alphabet of a counter screen.
type CounterAction interface {
	domain.InnerAction
	counterAction()
}

type (
	Increment          struct{}
	Decrement          struct{}
	IncrementLater     struct{} // increments once the configured delay elapsed
	PushAnotherCounter struct{} // pushes a counter seeded with the current count
	GoToRoot           struct{}
)

func (Increment) ActionName() string          { return "increment" }
func (Decrement) ActionName() string          { return "decrement" }
func (IncrementLater) ActionName() string     { return "increment_later" }
func (PushAnotherCounter) ActionName() string { return "push_another_counter" }
func (GoToRoot) ActionName() string           { return "go_to_root" }

func (Increment) counterAction()          {}
func (Decrement) counterAction()          {}
func (IncrementLater) counterAction()     {}
func (PushAnotherCounter) counterAction() {}
func (GoToRoot) counterAction()           {}

func counterReducer(delay time.Duration) func(Counter, CounterAction) (Counter, domain.ItemEffect) {
	return func(state Counter, action CounterAction) (Counter, domain.ItemEffect) {
		switch action.(type) {
		case Increment:
			state.Count++
		case Decrement:
			state.Count--
		case IncrementLater:
			return state, domain.ItemAfter(delay, Increment{})
		}
		return state, nil
	}
}

func counterIntent(state Counter, action CounterAction) domain.Intent {
	switch action.(type) {
	case PushAnotherCounter:
		return domain.PushIntent{Payload: Counter{Count: state.Count}}
	case GoToRoot:
		return domain.PopToRootIntent{}
	}
	return nil
}

// CounterDefinition registers the counter screen.
// A non-positive delay falls back to DefaultDelay.
func CounterDefinition(delay time.Duration) registry.Definition {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return registry.Definition{
		Variant: VariantCounter,
		Title:   registry.StaticTitle("Counter"),
		Reduce:  registry.Reducer(counterReducer(delay)),
		Render:  registry.Renderer(func(id domain.ID, _ Counter) any { return counterScreen{} }),
		Intent:  registry.Intent(counterIntent),
		Decode:  registry.Names(Increment{}, Decrement{}, IncrementLater{}, PushAnotherCounter{}, GoToRoot{}),
	}
}

// NewRegistry returns a sealed registry holding the demo variants.
func NewRegistry(delay time.Duration) *registry.Registry {
	reg := registry.New().MustRegister(RootDefinition(), CounterDefinition(delay))
	reg.Seal()
	return reg
}
