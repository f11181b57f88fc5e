package schedule

import (
	"context"
	"log/slog"
	"time"
)

// WaitUntil blocks until t or until ctx is done, whichever comes first.
// A time in the past returns immediately.
func WaitUntil(ctx context.Context, t time.Time) error {
	delay := time.Until(t)
	if delay <= 0 {
		return ctx.Err()
	}
	slog.Info("Waiting for scheduled start", slog.Time("at", t), slog.Duration("in", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
