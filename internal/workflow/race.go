package workflow

import (
	"context"
	"errors"
)

// firstOf runs every task concurrently and returns the index of the first one
// to succeed. The others are cancelled and awaited before returning. When all
// tasks fail the joined errors are returned.
func firstOf(ctx context.Context, tasks ...func(ctx context.Context) error) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		index int
		err   error
	}
	done := make(chan outcome, len(tasks))
	for i, task := range tasks {
		go func() {
			done <- outcome{index: i, err: task(ctx)}
		}()
	}

	winner := -1
	var errs []error
	for range tasks {
		o := <-done
		if winner >= 0 {
			continue
		}
		if o.err == nil {
			winner = o.index
			cancel()
			continue
		}
		errs = append(errs, o.err)
	}

	if winner >= 0 {
		return winner, nil
	}
	return -1, errors.Join(errs...)
}
