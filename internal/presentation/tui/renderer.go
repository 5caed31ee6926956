package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// NewRenderer returns a function that renders markdown using glamour,
// wrapped at width. An empty style detects the terminal background.
func NewRenderer(width int, style string) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return r.Render
}

// Width returns the column count of f, or DefaultWidth when f is not a
// terminal.
func Width(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
