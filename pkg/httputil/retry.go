package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network errors, 5xx and 429 responses) with this
// type so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy decides how often fn runs. A Policy must return the error of the
// last attempt unchanged so that callers can inspect it with errors.As.
type Policy func(ctx context.Context, fn func() error) error

// NoRetry runs fn exactly once.
func NoRetry(_ context.Context, fn func() error) error {
	return fn()
}

// Backoff returns a Policy that retries retryable errors up to attempts
// times, doubling delay after each failure. attempts <= 1 behaves like
// [NoRetry].
func Backoff(attempts int, delay time.Duration) Policy {
	if attempts <= 1 {
		return NoRetry
	}
	return func(ctx context.Context, fn func() error) error {
		return Retry(ctx, attempts, delay, fn)
	}
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// IsRetryable reports whether err, or anything it wraps, is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
