// Package httputil provides retry policies for the remote API transport.
//
// # Retry
//
// A [Policy] wraps one request attempt. The transport runs every request
// through its policy, which is [NoRetry] unless configured otherwise, so a
// failing request surfaces its error after a single attempt.
//
// [Backoff] builds a policy that retries transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The transport marks those failures by wrapping them in [RetryableError];
// anything else is returned immediately:
//
//	policy := httputil.Backoff(3, time.Second)
//	err := policy(ctx, func() error {
//	    return doRequest(ctx, url)
//	})
//
// The delay doubles after each failed attempt. Waiting between attempts
// stops early when the context is cancelled.
package httputil
