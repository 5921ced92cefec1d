// Package poll implements bounded poll-until-ready loops.
package poll

import (
	"context"
	"time"
)

// Policy bounds a poll loop: at most MaxAttempts checks, Interval apart.
// TimeoutErr is returned when every attempt came back not ready.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	TimeoutErr  error
	// OnRetry, if set, observes every attempt that was not ready.
	OnRetry func(attempt int, err error)
}

// Check reports whether the awaited resource is ready. A non-nil error from a
// check counts as "not ready yet", not as a failure of the loop.
type Check[T any] func(ctx context.Context, attempt int) (T, bool, error)

// Until runs check until it reports ready, the attempt budget is spent, or ctx ends.
// The first check runs immediately; Interval separates subsequent ones.
func Until[T any](ctx context.Context, p Policy, check Check[T]) (T, error) {
	var zero T
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, ok, err := check(ctx, attempt)
		if ok {
			return v, nil
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return zero, err
		}
	}
	return zero, p.TimeoutErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
