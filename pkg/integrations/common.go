package integrations

import (
	"net/http"
	"strconv"
	"time"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A non-positive timeout falls back to [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// rateLimitCause returns a RateLimitedError when the response signals an
// exhausted quota: a 429, or a 403 with X-RateLimit-Remaining set to 0.
func rateLimitCause(status int, h http.Header) error {
	exhausted := status == http.StatusTooManyRequests ||
		(status == http.StatusForbidden && h.Get("X-RateLimit-Remaining") == "0")
	if !exhausted {
		return nil
	}
	retryAfter, _ := strconv.Atoi(h.Get("Retry-After"))
	return &errs.RateLimitedError{RetryAfter: retryAfter, Message: h.Get("X-RateLimit-Reset")}
}
