package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text string `json:"text"`
}

func (note) Variant() Variant { return "note" }

func TestDiff(t *testing.T) {
	mint := SequenceMinter()
	a, b, c := mint(), mint(), mint()

	tests := []struct {
		name     string
		old      Stack
		new      Stack
		wantDiff *StackDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  Stack{{ID: a, Payload: note{"root"}}},
			wantDiff: &StackDiff{
				Structural: true,
				Added:      []ID{a},
			},
		},
		{
			name:     "No Changes",
			old:      Stack{{ID: a, Payload: note{"root"}}, {ID: b, Payload: note{"x"}}},
			new:      Stack{{ID: a, Payload: note{"root"}}, {ID: b, Payload: note{"x"}}},
			wantDiff: nil,
		},
		{
			name: "Payload Only",
			old:  Stack{{ID: a, Payload: note{"root"}}, {ID: b, Payload: note{"x"}}},
			new:  Stack{{ID: a, Payload: note{"root"}}, {ID: b, Payload: note{"y"}}},
			wantDiff: &StackDiff{
				Updated: []ID{b},
			},
		},
		{
			name: "Push",
			old:  Stack{{ID: a, Payload: note{"root"}}},
			new:  Stack{{ID: a, Payload: note{"root"}}, {ID: b, Payload: note{"x"}}},
			wantDiff: &StackDiff{
				Structural: true,
				Added:      []ID{b},
			},
		},
		{
			name: "Pop To Root",
			old:  Stack{{ID: a, Payload: note{"root"}}, {ID: b}, {ID: c}},
			new:  Stack{{ID: a, Payload: note{"root"}}},
			wantDiff: &StackDiff{
				Structural: true,
				Removed:    []ID{b, c},
			},
		},
		{
			name: "Reorder",
			old:  Stack{{ID: a}, {ID: b}, {ID: c}},
			new:  Stack{{ID: a}, {ID: c}, {ID: b}},
			wantDiff: &StackDiff{
				Structural: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	mint := SequenceMinter()
	a, b := mint(), mint()

	t.Run("Empty Fields Omitted", func(t *testing.T) {
		diff := Diff(Stack{{ID: a, Payload: note{"x"}}}, Stack{{ID: a, Payload: note{"y"}}})
		require.NotNil(t, diff)

		bytes, err := json.Marshal(diff)
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(bytes), `"added"`), "got: %s", bytes)
		assert.False(t, strings.Contains(string(bytes), `"structural"`), "got: %s", bytes)
		assert.True(t, strings.Contains(string(bytes), a.String()), "got: %s", bytes)
	})

	t.Run("Identities As Strings", func(t *testing.T) {
		diff := Diff(Stack{{ID: a}}, Stack{{ID: a}, {ID: b}})
		require.NotNil(t, diff)

		bytes, err := json.Marshal(diff)
		require.NoError(t, err)
		assert.Contains(t, string(bytes), `"added":["`+b.String()+`"]`)
	})
}
