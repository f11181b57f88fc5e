package opus

import (
	"context"
	"time"
)

// FrameDuration is the playback time of one Opus frame.
const FrameDuration = 20 * time.Millisecond

// Clock is the time source used for pacing. Implementations must measure
// elapsed time monotonically.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock paces against the runtime's monotonic clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pacer spaces frames so that frame N is released no earlier than
// N * FrameDuration after the pacer was created.
type Pacer struct {
	clock  Clock
	start  time.Time
	frames uint64
}

func NewPacer(clock Clock) *Pacer {
	return &Pacer{clock: clock, start: clock.Now()}
}

// Wait blocks until the next frame is due. If the frame is already overdue it
// returns immediately with how late it is; lost time is never made up.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	p.frames++
	scheduled := time.Duration(p.frames) * FrameDuration
	elapsed := p.clock.Since(p.start)
	if scheduled > elapsed {
		return 0, p.clock.Sleep(ctx, scheduled-elapsed)
	}
	return elapsed - scheduled, nil
}

// Frames returns how many frames have been released.
func (p *Pacer) Frames() uint64 {
	return p.frames
}
