package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benjaminlong/mergify-algos/pkg/httputil"
)

func ExampleBackoff() {
	calls := 0
	policy := httputil.Backoff(3, time.Millisecond)

	err := policy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &httputil.RetryableError{Err: errors.New("503 from upstream")}
		}
		return nil
	})

	fmt.Println("Calls:", calls)
	fmt.Println("Error:", err)
	// Output:
	// Calls: 3
	// Error: <nil>
}

func ExampleNoRetry() {
	calls := 0
	err := httputil.NoRetry(context.Background(), func() error {
		calls++
		return &httputil.RetryableError{Err: errors.New("503 from upstream")}
	})

	fmt.Println("Calls:", calls)
	fmt.Println("Error:", err)
	// Output:
	// Calls: 1
	// Error: 503 from upstream
}
