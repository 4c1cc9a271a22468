package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shuttlebook/internal/domain"
)

func TestWithRetryConflictThenSuccess(t *testing.T) {
	slept := []time.Duration{}
	sleep := func(d time.Duration) { slept = append(slept, d) }

	calls := 0
	err := withRetry(context.Background(), 3, defaultRetryDelay, sleep, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return domain.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != 100*time.Millisecond {
		t.Fatalf("expected one fixed 100ms delay, got %v", slept)
	}
}

func TestWithRetryTerminalErrorAbortsImmediately(t *testing.T) {
	calls := 0
	want := domain.InsufficientCapacityError{Requested: 2, Remaining: 1}
	err := withRetry(context.Background(), 3, time.Millisecond, func(time.Duration) {}, func(ctx context.Context) error {
		calls++
		return want
	})
	if calls != 1 {
		t.Fatalf("terminal failure must not be retried, got %d attempts", calls)
	}
	if !domain.IsInsufficientCapacity(err) {
		t.Fatalf("expected the terminal error back, got %v", err)
	}
}

func TestWithRetryExhaustionYieldsContention(t *testing.T) {
	slept := 0
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(time.Duration) { slept++ }, func(ctx context.Context) error {
		calls++
		return domain.ErrVersionConflict
	})

	var contention domain.ContentionError
	if !errors.As(err, &contention) {
		t.Fatalf("expected ContentionError, got %v", err)
	}
	if contention.Attempts != 3 {
		t.Fatalf("expected 3 attempts reported, got %d", contention.Attempts)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if slept != 2 {
		t.Fatalf("no sleep after the final attempt; got %d sleeps", slept)
	}
}

func TestWithRetryContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := withRetry(ctx, 3, time.Millisecond, func(time.Duration) { cancel() }, func(ctx context.Context) error {
		return domain.ErrVersionConflict
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
