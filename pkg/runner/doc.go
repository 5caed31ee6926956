/*
Package runner implements the dispatch loop of the navigation engine.

The loop serializes every delivery (user actions, effect follow-ups and
surface notifications) onto a single goroutine, so reducers and the
reconciler never run concurrently. Enqueueing never blocks: it is safe to
dispatch from an effect, an HTTP handler or a surface callback invoked while
the loop itself is reconciling.

# Key Components

  - Loop: the single-consumer queue plus the bounded effect pool.
  - StepFunc: one complete pass (reducers and reconciliation) for one action.

# Usage

	loop := runner.New(engine.step,
		runner.WithLogger(logger),
		runner.WithMaxEffects(16),
	)

	go loop.Run(ctx)
	loop.Dispatch(domain.Pop{})
*/
package runner
