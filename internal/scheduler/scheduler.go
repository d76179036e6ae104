// Package scheduler repeats claim runs for long-running deployments.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Task is one claim run
type Task func(ctx context.Context) error

// Loop runs task every interval until ctx is done. The first run starts
// immediately; a run still in progress when the next one is due pushes it back.
func Loop(ctx context.Context, interval time.Duration, task Task) error {
	if interval <= 0 {
		return errors.New("loop interval must be positive")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			start := time.Now()
			if err := task(ctx); err != nil {
				slog.Error("scheduled run failed", "error", err, "duration", time.Since(start))
				return
			}
			slog.Info("scheduled run finished", "duration", time.Since(start), "next_in", interval)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule claim: %w", err)
	}

	slog.Info("looping", "interval", interval)
	sched.Start()

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return ctx.Err()
}
