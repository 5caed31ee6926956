package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/presentation/graph"
	"github.com/aretw0/navstack/internal/presentation/tui"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

const consoleHelp = `Commands:
  <n> | <action>  run an action of the top screen
  back            dismiss the top screen (gesture)
  pop             pop the top screen
  root            pop to the root screen
  stack           list the stack
  graph           print the stack as a Mermaid chart
  help            show this help
  quit            exit`

// Console reads commands from a terminal and drives the engine.
type Console struct {
	Engine  *navstack.Engine
	Surface *tui.Surface
	Out     io.Writer
	Logger  *slog.Logger
}

// Run executes commands from in until EOF, quit, or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := tui.ReadLines(ctx, in)
	for {
		fmt.Fprint(c.Out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return io.EOF
			}
			if l.Err != nil {
				fmt.Fprintf(c.Out, "Error: %v. Please try again.\n", l.Err)
				continue
			}
			quit, err := c.Execute(ctx, l.Text)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs a single command. Usage mistakes are reported on Out;
// only engine failures are returned.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(c.Out, consoleHelp)
		return false, nil
	case "back":
		if !c.Surface.Back() {
			printSystemMessage(c.Out, "Already at the root.")
			return false, nil
		}
		return false, c.Engine.Sync(ctx)
	case "pop":
		return false, c.Engine.Send(ctx, domain.Pop{})
	case "root":
		return false, c.Engine.Send(ctx, domain.PopToRoot{})
	case "stack":
		for i, item := range c.Engine.State() {
			fmt.Fprintf(c.Out, "%d. %s (%s) %s\n", i, item.Title, item.Payload.Variant(), item.ID)
		}
		return false, nil
	case "graph":
		fmt.Fprint(c.Out, graph.GenerateMermaid(c.Engine.State(), &graph.Overlay{Shown: c.Surface.Shown()}))
		return false, nil
	}

	top, ok := c.Surface.Top()
	if !ok {
		printSystemMessage(c.Out, "Nothing is displayed yet.")
		return false, nil
	}
	name := c.resolve(top, line)
	inner, err := c.Engine.Registry().Decode(top.Item.Payload.Variant(), name)
	if err != nil {
		printSystemMessage(c.Out, "%v (type 'help')", err)
		return false, nil
	}
	c.Logger.Debug("console action", "id", top.ID, "action", name)
	return false, c.Engine.Send(ctx, domain.ItemAction{ID: top.ID, Inner: inner})
}

// resolve maps a 1-based index to the screen action it labels.
func (c *Console) resolve(top ports.View, line string) string {
	n, err := strconv.Atoi(line)
	if err != nil {
		return strings.ToLower(line)
	}
	screen, ok := top.Renderable.(ports.Screen)
	if !ok {
		return line
	}
	actions := screen.Actions()
	if n < 1 || n > len(actions) {
		return line
	}
	return actions[n-1]
}
