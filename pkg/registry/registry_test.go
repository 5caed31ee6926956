package registry_test

import (
	"testing"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tally struct{ N int }

func (tally) Variant() domain.Variant { return "tally" }

type tallyAction interface {
	domain.InnerAction
	tally()
}

type bump struct{}

func (bump) ActionName() string { return "bump" }
func (bump) tally()             {}

type foreign struct{}

func (foreign) ActionName() string { return "foreign" }

func tallyDefinition() registry.Definition {
	return registry.Definition{
		Variant: "tally",
		Title:   registry.Title(func(p tally) string { return "Tally" }),
		Reduce: registry.Reducer(func(p tally, a tallyAction) (tally, domain.ItemEffect) {
			p.N++
			return p, nil
		}),
		Render: registry.Renderer(func(id domain.ID, p tally) any { return p.N }),
		Decode: registry.Names(bump{}),
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(tallyDefinition()))

	def, ok := reg.Lookup("tally")
	require.True(t, ok)
	assert.Equal(t, domain.Variant("tally"), def.Variant)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []domain.Variant{"tally"}, reg.Variants())
}

func TestRegistry_RejectsInvalidDefinitions(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(tallyDefinition()))

	err := reg.Register(tallyDefinition())
	assert.ErrorIs(t, err, registry.ErrDuplicateVariant)

	err = reg.Register(registry.Definition{Variant: "bare"})
	assert.ErrorIs(t, err, registry.ErrIncomplete)

	err = reg.Register(registry.Definition{})
	assert.ErrorIs(t, err, registry.ErrIncomplete)
}

func TestRegistry_Seal(t *testing.T) {
	reg := registry.New()
	reg.Seal()
	reg.Seal()
	assert.True(t, reg.Sealed())

	err := reg.Register(tallyDefinition())
	assert.ErrorIs(t, err, registry.ErrSealed)
}

func TestRegistry_MustLookupPanicsOnUnknownVariant(t *testing.T) {
	reg := registry.New()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, domain.ErrUnknownVariant)
	}()
	reg.MustLookup("ghost")
}

func TestRegistry_RequireRenderers(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(tallyDefinition()))
	assert.NoError(t, reg.RequireRenderers())

	def := tallyDefinition()
	def.Variant = "headless"
	def.Render = nil
	require.NoError(t, reg.Register(def))
	assert.ErrorIs(t, reg.RequireRenderers(), registry.ErrIncomplete)
}

func TestRegistry_NewItemDerivesTitle(t *testing.T) {
	reg := registry.New().MustRegister(tallyDefinition())
	id := domain.SequenceMinter()()

	item := reg.NewItem(id, tally{N: 3})
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "Tally", item.Title)
	assert.Equal(t, tally{N: 3}, item.Payload)
}

func TestTypedReducerIgnoresForeignActions(t *testing.T) {
	reduce := tallyDefinition().Reduce

	next, eff := reduce(tally{N: 1}, bump{})
	assert.Equal(t, tally{N: 2}, next)
	assert.Nil(t, eff)

	next, _ = reduce(tally{N: 1}, foreign{})
	assert.Equal(t, tally{N: 1}, next)
}

func TestDecode(t *testing.T) {
	reg := registry.New().MustRegister(tallyDefinition())

	a, err := reg.Decode("tally", "bump")
	require.NoError(t, err)
	assert.Equal(t, bump{}, a)

	_, err = reg.Decode("tally", "nope")
	var unknown *registry.UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)

	_, err = reg.Decode("ghost", "bump")
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
}
