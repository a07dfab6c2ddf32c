package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	t.Run("stops on success", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			if calls == 2 {
				return nil
			}
			return &RetryableError{Err: errors.New("transient")}
		})
		if err != nil {
			t.Fatalf("Retry() error = %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("non-retryable returns immediately", func(t *testing.T) {
		calls := 0
		want := errors.New("404")
		err := Retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return want
		})
		if !errors.Is(err, want) {
			t.Errorf("Retry() error = %v, want %v", err, want)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("returns last error after attempts", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return &RetryableError{Err: errors.New("still down")}
		})
		if !IsRetryable(err) {
			t.Errorf("Retry() error = %v, want retryable", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, 3, time.Hour, func() error {
			return &RetryableError{Err: errors.New("transient")}
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Retry() error = %v, want context.Canceled", err)
		}
	})
}

func TestBackoffSingleAttempt(t *testing.T) {
	for _, attempts := range []int{-1, 0, 1} {
		calls := 0
		_ = Backoff(attempts, time.Millisecond)(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("transient")}
		})
		if calls != 1 {
			t.Errorf("Backoff(%d) made %d calls, want 1", attempts, calls)
		}
	}
}
