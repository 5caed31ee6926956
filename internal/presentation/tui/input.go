package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputSize bounds a single command line.
const MaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Line is one command read from the terminal.
type Line struct {
	Text string
	Err  error
}

// ReadLines pumps r line by line until EOF or ctx is done.
// Lines are trimmed and sanitized; rejected lines carry Err.
// The channel is closed when input ends.
func ReadLines(ctx context.Context, r io.Reader) <-chan Line {
	ch := make(chan Line)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 1024), 64*1024)
		for scanner.Scan() {
			clean, err := Sanitize(strings.TrimSpace(scanner.Text()))
			select {
			case ch <- Line{Text: clean, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Sanitize enforces the size limit, validates UTF-8 and strips control
// characters that would corrupt the terminal or the logs.
func Sanitize(input string) (string, error) {
	if len(input) > MaxInputSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), MaxInputSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, input), nil
}
