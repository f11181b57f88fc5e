// Package race runs concurrent tasks until the first of them settles.
package race

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultGrace is how long First waits for losing tasks to stop once cancelled.
const DefaultGrace = 2 * time.Second

// errSettled makes the errgroup cancel its context as soon as any task
// returns, whether or not the task itself failed.
var errSettled = errors.New("race: task settled")

// Task is a named unit of work. Run must return once ctx is cancelled.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outcome is the result of the first task to settle.
type Outcome struct {
	Winner string
	Err    error
}

// First runs all tasks concurrently and returns the outcome of whichever
// finishes first, successfully or not. The remaining tasks are cancelled and
// given up to grace to return; any still running after that are abandoned.
func First(ctx context.Context, grace time.Duration, tasks ...Task) Outcome {
	if len(tasks) == 0 {
		return Outcome{}
	}

	g, gctx := errgroup.WithContext(ctx)
	settled := make(chan Outcome, len(tasks))
	for _, task := range tasks {
		g.Go(func() error {
			err := task.Run(gctx)
			settled <- Outcome{Winner: task.Name, Err: err}
			return errSettled
		})
	}

	first := <-settled

	joined := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(joined)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-joined:
	case <-timer.C:
		slog.Warn(
			"Abandoning tasks that did not stop after cancellation",
			slog.String("winner", first.Winner),
			slog.Duration("grace", grace),
		)
	}
	return first
}
