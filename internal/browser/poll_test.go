package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		timeout time.Duration
		cond    func(calls int) (bool, error)
		want    error
	}{
		{"immediate", time.Second, func(int) (bool, error) { return true, nil }, nil},
		{"after a few calls", time.Second, func(n int) (bool, error) { return n >= 3, nil }, nil},
		{"times out", 20 * time.Millisecond, func(int) (bool, error) { return false, nil }, ErrTimeout},
		{"condition error", time.Second, func(int) (bool, error) { return false, boom }, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := poll(context.Background(), tt.timeout, time.Millisecond, func() (bool, error) {
				calls++
				return tt.cond(calls)
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("poll() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPoll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := poll(ctx, 0, time.Millisecond, func() (bool, error) { return false, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
