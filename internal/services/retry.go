package services

import (
	"context"
	"errors"
	"time"

	"shuttlebook/internal/domain"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

// withRetry re-drives op from a fresh inventory read while it keeps losing
// the conditional write. Only a version conflict is retried; every other
// failure is terminal and returned as-is. The delay is a fixed interval, and
// no lock or transaction is held across it. Exhausting the budget yields
// Contention, which callers word as "try again", not "sold out".
func withRetry(ctx context.Context, maxAttempts int, delay time.Duration, sleep func(time.Duration), op func(context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		sleep(delay)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return domain.ContentionError{Attempts: maxAttempts}
}
