package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// BackoffUnit is the base wait between attempts; attempt n waits n² units
var BackoffUnit = 500 * time.Millisecond

// permanentError marks a failure that must not be retried
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so RetryWithBackoff returns it without another attempt
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff retries fn up to maxRetries times with quadratic backoff.
// It stops early when ctx is done or fn returns a Permanent error.
func RetryWithBackoff(ctx context.Context, maxRetries int, fn func(context.Context) error, logger *slog.Logger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * BackoffUnit
			logger.WarnContext(ctx, "retrying", "attempt", attempt+1, "max_attempts", maxRetries, "backoff", backoff)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
		logger.DebugContext(ctx, "attempt failed", "attempt", attempt+1, "error", err)
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
