package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_RunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Loop(ctx, 50*time.Millisecond, func(ctx context.Context) error {
			if runs.Add(1) >= 2 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}

	if runs.Load() < 2 {
		t.Errorf("expected at least two runs, got %d", runs.Load())
	}
}

func TestLoop_FailedRunKeepsLooping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Loop(ctx, 20*time.Millisecond, func(ctx context.Context) error {
			if runs.Add(1) >= 2 {
				cancel()
			}
			return errors.New("claim failed")
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	if runs.Load() < 2 {
		t.Errorf("expected a second run after a failure, got %d", runs.Load())
	}
}

func TestLoop_InvalidInterval(t *testing.T) {
	if err := Loop(context.Background(), 0, nil); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
