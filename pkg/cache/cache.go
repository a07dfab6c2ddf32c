// Package cache provides byte-level caches for remote API responses.
//
// The transport in pkg/integrations stores raw list pages here so that a
// repeated run against the same repository can skip the network. Caching is
// opt-in: the default backend is [NullCache], which never stores anything.
//
// Backends:
//
//   - [NullCache]: no-op, the default
//   - [FileCache]: one JSON file per entry under a directory (CLI usage)
//   - [RedisCache]: shared cache for multiple server instances
//
// Keys are produced by a [Keyer]. Pages fetched with a token are scoped by a
// hash of that token, so two callers with different credentials never see
// each other's responses:
//
//	keyer := cache.NewScopedKeyer(nil, cache.TokenScope(token))
//	key := keyer.PageKey("https://api.github.com/repos/o/r/stargazers?per_page=100")
package cache

import (
	"context"
	"time"
)

// Cache is a TTL-aware byte store. A miss is reported as (nil, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
