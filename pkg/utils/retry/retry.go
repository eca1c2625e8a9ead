package retry

import (
	"context"
	"errors"
	"time"
)

var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function returning when to retry.
//
// If the context is canceled, Backoff returns ctx.Err().
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff waiting for a fixed interval.
var StaticBackoff = func(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff returns a Backoff with exponential waits.
//
// For the N-th call, it waits `initialInterval * r^N` or until the context
// is done.
var ExponentialBackoff = func(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			i := float64(interval) * r
			interval = time.Duration(int64(i))
			return nil
		}
	}
}

// Blocking calls f until it returns nil or a non-retry error.
//
// If f returns ErrRetry (possibly wrapped), Blocking calls f again after
// backoff. Other errors and successes end the loop.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if errors.Is(err, ErrRetry) {
			continue
		}
		return last, err
	}
}
