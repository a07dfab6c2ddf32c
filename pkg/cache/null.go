package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every lookup misses and every request reaches
// the network. It backs cache.backend = "none", the default.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns the cache used when caching is off.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
