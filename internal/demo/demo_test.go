package demo

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterReducer(t *testing.T) {
	reduce := CounterDefinition(time.Millisecond).Reduce

	p, eff := reduce(Counter{Count: 1}, Increment{})
	assert.Equal(t, Counter{Count: 2}, p)
	assert.Nil(t, eff)

	p, _ = reduce(Counter{Count: 1}, Decrement{})
	assert.Equal(t, Counter{Count: 0}, p)

	// Navigation intents leave the payload untouched.
	p, eff = reduce(Counter{Count: 5}, PushAnotherCounter{})
	assert.Equal(t, Counter{Count: 5}, p)
	assert.Nil(t, eff)

	p, eff = reduce(Counter{Count: 5}, IncrementLater{})
	assert.Equal(t, Counter{Count: 5}, p)
	require.NotNil(t, eff)
	assert.Equal(t, Increment{}, eff(context.Background()))
}

func TestIntents(t *testing.T) {
	rootIntent := RootDefinition().Intent
	counterIntent := CounterDefinition(0).Intent

	assert.Equal(t, domain.PushIntent{Payload: Counter{}}, rootIntent(Root{}, PushCounter{}))
	assert.Equal(t, domain.PushIntent{Payload: Counter{Count: 7}}, counterIntent(Counter{Count: 7}, PushAnotherCounter{}))
	assert.Equal(t, domain.PopToRootIntent{}, counterIntent(Counter{}, GoToRoot{}))
	assert.Nil(t, counterIntent(Counter{}, Increment{}))
	assert.Nil(t, counterIntent(Counter{}, PushCounter{}))
}

func TestRegistryIsSealedAndRenderable(t *testing.T) {
	reg := NewRegistry(0)
	assert.True(t, reg.Sealed())
	assert.NoError(t, reg.RequireRenderers())
	assert.Equal(t, []domain.Variant{VariantCounter, VariantRoot}, reg.Variants())

	item := reg.NewItem(domain.SequenceMinter()(), Counter{Count: 3})
	assert.Equal(t, "Counter", item.Title)

	screen, ok := reg.MustLookup(VariantCounter).Render(item.ID, item.Payload).(ports.Screen)
	require.True(t, ok)
	assert.Contains(t, screen.Body(item.Payload), "**3**")
	assert.Contains(t, screen.Actions(), "push_another_counter")

	a, err := reg.Decode(VariantCounter, "go_to_root")
	require.NoError(t, err)
	assert.Equal(t, GoToRoot{}, a)
}
