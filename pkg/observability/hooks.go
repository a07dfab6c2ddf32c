// Package observability lets binaries watch a neighbour search without the
// libraries depending on a logging or metrics backend.
//
// Libraries emit events through three hook sets, all no-ops until a binary
// registers its own:
//
//	observability.Stages().OnStageStart(ctx, "stargazers")
//	observability.Stages().OnStageComplete(ctx, "stargazers", len(logins), time.Since(start), err)
//
// The CLI registers [LogHooks] under -v. Tracing is separate: [InitTracing]
// installs an OpenTelemetry provider that exports over OTLP/gRPC when an
// endpoint is configured and drops spans otherwise.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// StageHooks receives events from the stages of a neighbour search:
// stargazers, aggregate, bulk and rank.
type StageHooks interface {
	OnStageStart(ctx context.Context, stage string)
	// OnStageComplete reports the number of items the stage produced.
	OnStageComplete(ctx context.Context, stage string, count int, duration time.Duration, err error)
}

// CacheHooks receives response cache lookups and writes. keyType is "page"
// or "query".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives one OnRequest per attempt, followed by OnResponse when
// the server answered (whatever the status) or OnError when it could not be
// reached.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string)                               {}
func (NoopStageHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// registered holds one hook set. A nil pointer means the no-op default.
type registered[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (r *registered[T]) get() T {
	if p := r.p.Load(); p != nil {
		return *p
	}
	return r.noop
}

func (r *registered[T]) set(h T) {
	if any(h) != nil {
		r.p.Store(&h)
	}
}

var (
	stageHooks = registered[StageHooks]{noop: NoopStageHooks{}}
	cacheHooks = registered[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks  = registered[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetStageHooks registers h for every later Stages call. nil is ignored.
func SetStageHooks(h StageHooks) { stageHooks.set(h) }

// SetCacheHooks registers h for every later Cache call. nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }

// SetHTTPHooks registers h for every later HTTP call. nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpHooks.set(h) }

func Stages() StageHooks { return stageHooks.get() }
func Cache() CacheHooks  { return cacheHooks.get() }
func HTTP() HTTPHooks    { return httpHooks.get() }

// Reset restores the no-op hooks. Tests that register hooks call it in
// t.Cleanup.
func Reset() {
	stageHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
