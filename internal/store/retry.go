package store

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidMaxAttempts is returned when the retry budget is not positive.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")

// WithRetry retries an operation with exponential backoff, stopping
// early on permanent errors since retrying those cannot succeed.
// Parameters:
//   - ctx: context for cancellation; checked before every attempt.
//   - maxAttempts: maximum number of attempts (must be > 0).
//   - baseDelay: delay before the first retry; doubles each attempt.
//   - operation: operation to run.
// Returns:
//   - error: nil on success, the last error once attempts are
//     exhausted, or immediately on a permanent error.
func WithRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, operation func() error) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
