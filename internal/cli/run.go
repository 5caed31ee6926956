package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/presentation/tui"
)

// RunInteractive starts the terminal demo, reading commands from in and
// drawing to out, until the user quits or a signal arrives.
func RunInteractive(opts RunOptions, in io.Reader, out io.Writer) error {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}

	tui.PrintBanner(out, navstack.Version)

	width := tui.DefaultWidth
	if f, ok := out.(*os.File); ok {
		width = tui.Width(f)
	}
	surface := tui.NewSurface(out, tui.WithRenderer(tui.NewRenderer(width, cfg.Render.Style)))

	engine, err := createEngine(cfg, surface, logger, nil)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- engine.Run(sigCtx) }()

	if err := engine.Idle(sigCtx); err != nil {
		return handleExecutionError(err)
	}
	printSystemMessage(out, "Type 'help' for commands.")

	console := &Console{Engine: engine, Surface: surface, Out: out, Logger: logger}
	runErr := console.Run(sigCtx, in)

	sigCtx.Cancel()
	err = errors.Join(handleExecutionError(runErr), <-loopErr)
	if sig := sigCtx.Signal(); sig != nil {
		logger.Info("interrupted", "signal", sig)
	}
	return err
}
