// Package integrations provides the HTTP transport shared by remote API
// clients.
//
// # Overview
//
// The only remote API today is GitHub, implemented in the [github]
// subpackage. It builds on [Client], which handles:
//
//   - Default request headers (Accept, Authorization)
//   - Mapping non-2xx responses to structured errors that carry the
//     upstream status and body
//   - An optional retry policy (single attempt by default)
//   - An optional rate limiter shared by all requests of a client
//   - An optional response cache (see [cache.Cache])
//   - HTTP hooks from [observability]
//
// # Errors
//
// A non-2xx response becomes an *errors.Error with code UPSTREAM_HTTP whose
// Status is the upstream status and whose Detail is the upstream body
// (decoded when it is JSON). Network failures have code NETWORK_ERROR.
// Responses with status 5xx or 429 and network failures are marked
// retryable, which only matters when a retry policy is configured.
//
// [github]: github.com/benjaminlong/mergify-algos/pkg/integrations/github
// [cache.Cache]: github.com/benjaminlong/mergify-algos/pkg/cache.Cache
// [observability]: github.com/benjaminlong/mergify-algos/pkg/observability
package integrations
