package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/cronexpr"
)

// ErrNoRunTime is returned when a cron expression never fires after the given time.
var ErrNoRunTime = errors.New("cron expression has no upcoming run time")

// NextRunTime returns the first time after `after` that cron matches.
func NextRunTime(cron string, after time.Time) (time.Time, error) {
	times, err := NextRunTimesAfter(cron, after, 1)
	if err != nil {
		return time.Time{}, err
	}
	if len(times) == 0 || times[0].IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoRunTime, cron)
	}
	return times[0], nil
}

// NextRunTimesAfter returns the next N run times after a specific time.
// It returns an error if the cron expression is invalid or if count is less than 1.
func NextRunTimesAfter(cron string, after time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("count must be greater than 0")
	}
	expr, err := cronexpr.Parse(cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return expr.NextN(after, uint(n)), nil
}

func ValidateCron(cron string) error {
	_, err := cronexpr.Parse(cron)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
