package browser

import (
	"context"
	"time"
)

const pollInterval = 250 * time.Millisecond

// poll calls cond until it reports true, ctx ends or timeout elapses.
// A zero timeout waits forever. Errors from cond abort the wait.
func poll(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrTimeout
		case <-ticker.C:
		}
	}
}
