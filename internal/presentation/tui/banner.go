package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the navstack banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _ __   __ ___   _____| |_ __ _  ___| | __", "#818cf8"},
		{" | '_ \\ / _` \\ \\ / / __| __/ _` |/ __| |/ /", "#a78bfa"},
		{" | | | | (_| |\\ V /\\__ \\ || (_| | (__|   < ", "#c084fc"},
		{" |_| |_|\\__,_| \\_/ |___/\\__\\__,_|\\___|_|\\_\\", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
