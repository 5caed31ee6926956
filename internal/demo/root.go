package demo

import (
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
)

// VariantRoot tags the root menu screen.
const VariantRoot domain.Variant = "root"

// Root is the payload of the root menu. It has no state of its own.
type Root struct{}

func (Root) Variant() domain.Variant { return VariantRoot }

// RootAction is the action alphabet of the root menu.
type RootAction interface {
	domain.InnerAction
	rootAction()
}

// PushCounter asks for a fresh counter to be pushed.
type PushCounter struct{}

func (PushCounter) ActionName() string { return "push_counter" }
func (PushCounter) rootAction()        {}

// The root menu only emits navigation intents; its payload never changes.
func reduceRoot(state Root, _ RootAction) (Root, domain.ItemEffect) {
	return state, nil
}

func rootIntent(_ Root, action RootAction) domain.Intent {
	switch action.(type) {
	case PushCounter:
		return domain.PushIntent{Payload: Counter{}}
	}
	return nil
}

// RootDefinition registers the root menu.
func RootDefinition() registry.Definition {
	return registry.Definition{
		Variant: VariantRoot,
		Title:   registry.StaticTitle("Root"),
		Reduce:  registry.Reducer(reduceRoot),
		Render:  registry.Renderer(func(id domain.ID, _ Root) any { return rootScreen{} }),
		Intent:  registry.Intent(rootIntent),
		Decode:  registry.Names(PushCounter{}),
	}
}
