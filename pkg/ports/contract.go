package ports

import (
	"testing"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractPayload struct {
	N int
}

func (contractPayload) Variant() domain.Variant { return "contract" }

// RunSurfaceContract runs a suite of tests to verify that a Surface
// implementation adheres to the defined interface contract.
// newSurface must return a fresh, empty surface on every call.
func RunSurfaceContract(t *testing.T, newSurface func() Surface) {
	mint := domain.SequenceMinter()
	view := func(n int) View {
		id := mint()
		return View{
			ID:   id,
			Item: domain.Item{ID: id, Title: "Contract", Payload: contractPayload{N: n}},
		}
	}

	t.Run("Starts Empty", func(t *testing.T) {
		s := newSurface()
		assert.Empty(t, s.Shown())
	})

	t.Run("SetViews Replaces In Order", func(t *testing.T) {
		s := newSurface()
		a, b, c := view(1), view(2), view(3)

		s.SetViews([]View{a, b, c}, false)
		require.Equal(t, []domain.ID{a.ID, b.ID, c.ID}, s.Shown())

		s.SetViews([]View{a, c}, true)
		assert.Equal(t, []domain.ID{a.ID, c.ID}, s.Shown())
	})

	t.Run("Update Keeps Structure", func(t *testing.T) {
		s := newSurface()
		a, b := view(1), view(2)
		s.SetViews([]View{a, b}, false)

		b.Item.Payload = contractPayload{N: 20}
		s.Update(b)
		assert.Equal(t, []domain.ID{a.ID, b.ID}, s.Shown())
	})

	t.Run("Update Of Unknown View Is Ignored", func(t *testing.T) {
		s := newSurface()
		a := view(1)
		s.SetViews([]View{a}, false)

		s.Update(view(9))
		assert.Equal(t, []domain.ID{a.ID}, s.Shown())
	})
}
