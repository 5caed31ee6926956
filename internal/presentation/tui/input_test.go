package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain", "increment", "increment", nil},
		{"tab kept", "a\tb", "a\tb", nil},
		{"escape stripped", "\x1b[31mpop", "[31mpop", nil},
		{"bell stripped", "po\x07p", "pop", nil},
		{"invalid utf8", "\xff", "", ErrInvalidUTF8},
		{"too large", strings.Repeat("a", MaxInputSize+1), "", ErrInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLines(t *testing.T) {
	lines := ReadLines(context.Background(), strings.NewReader("  push_counter \n\nback\n"))

	var got []string
	for l := range lines {
		require.NoError(t, l.Err)
		got = append(got, l.Text)
	}
	assert.Equal(t, []string{"push_counter", "", "back"}, got)
}
