package loop

import (
	"context"
	"fmt"
	"time"
)

type Next struct {
	// if not nil, breaks with error
	err error

	// if quit == true and err == nil, breaks without error
	quit bool

	// otherwise, continue loop with interval.
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}

	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// continue loop, sleeping interval before the next call.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// break loop. err may be nil to break without error.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task receives (context, last value) and returns (new value, Next).
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task in loop.
//
// The task is first called as task(ctx, init). To run one more time,
// return Continue(interval); the task is then called again with the value
// it returned. To end the loop, return Break(err) (err may be nil).
// Zero value (Next{}) equals Continue(0): "go next ASAP".
//
// When ctx is done, the loop breaks with ctx.Err().
//
// Returns the last T together with the error from Break (nil for
// Break(nil)).
func Start[T any](ctx context.Context, init T, task Task[T]) (T, error) {
	select {
	case <-ctx.Done():
		return init, ctx.Err()
	default:
	}

	value := init
	for {
		v, n := task(ctx, value)

		if n.err != nil {
			return v, n.err
		} else if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			// shutting down is priority. it should come first, and checking timer later.
			if !timer.Stop() {
				<-timer.C // drain. see: time.Timer.Stop's document
			}
			return value, ctx.Err()

		case <-timer.C:
			continue
		}
	}
}
