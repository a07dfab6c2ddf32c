package neighbours

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benjaminlong/mergify-algos/pkg/integrations/github"
	"github.com/benjaminlong/mergify-algos/pkg/observability"
)

// Options configures a [Finder].
type Options struct {
	BatchSize int               // concurrent batch size, defaults to DefaultBatchSize
	Logins    github.LoginRules // owner logins accepted, defaults to github.PublicLogins
	Logger    *log.Logger       // defaults to log.Default()
	Tracer    trace.Tracer      // defaults to observability.Tracer()
}

// Finder runs neighbour searches. It holds no per-search state and is safe
// for concurrent use.
type Finder struct {
	sources   SourceFactory
	batchSize int
	logins    github.LoginRules
	logger    *log.Logger
	tracer    trace.Tracer
}

// NewFinder creates a Finder reading from sources.
func NewFinder(sources SourceFactory, opts Options) *Finder {
	f := &Finder{
		sources:   sources,
		batchSize: opts.BatchSize,
		logins:    opts.Logins,
		logger:    opts.Logger,
		tracer:    opts.Tracer,
	}
	if f.batchSize <= 0 {
		f.batchSize = DefaultBatchSize
	}
	if f.logger == nil {
		f.logger = log.Default()
	}
	if f.tracer == nil {
		f.tracer = observability.Tracer()
	}
	return f
}

// Sequential fetches stargazers, then each stargazer's starred list one at a
// time, and ranks the result.
func (f *Finder) Sequential(ctx context.Context, req Request) (*Result, error) {
	return f.Find(ctx, req, ModeSequential)
}

// Concurrent is like Sequential but fetches starred lists in parallel
// batches. For the same remote data it returns the same result.
func (f *Finder) Concurrent(ctx context.Context, req Request) (*Result, error) {
	return f.Find(ctx, req, ModeConcurrent)
}

// Bulk reads stargazers and their starred repositories with a single query,
// capped at github.BulkPageSize of each, and ranks the result.
func (f *Finder) Bulk(ctx context.Context, req Request) (*Result, error) {
	return f.Find(ctx, req, ModeBulk)
}

// Find collects the user map with the given mode and ranks it, excluding
// the target repository itself.
func (f *Finder) Find(ctx context.Context, req Request, mode Mode) (*Result, error) {
	ctx, span := f.tracer.Start(ctx, "neighbours.find", trace.WithAttributes(
		append(observability.RepoAttrs(req.Owner, req.Repo),
			attribute.String("mode", string(mode)),
			attribute.Int("page_limit", req.PageLimit),
			attribute.Int("threshold", req.Threshold),
		)...,
	))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	runID := uuid.NewString()
	logger := f.logger.With("run", runID[:8], "repo", req.FullName())
	span.SetAttributes(attribute.String("run_id", runID))

	users, err := f.collect(ctx, req, mode, logger)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = f.stage(ctx, "rank", func(ctx context.Context) (int, error) {
		res = Rank(users, []string{req.FullName()}, req.Threshold)
		return len(res.Sorted), nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("neighbours ranked", "users", users.Len(), "neighbours", len(res.Sorted), "threshold", req.Threshold)
	return res, nil
}

// Collect gathers the user map of req without ranking it. The CLI uses it
// to save a map for offline ranking.
func (f *Finder) Collect(ctx context.Context, req Request, mode Mode) (*UserRepoMap, error) {
	logger := f.logger.With("repo", req.FullName())
	return f.collect(ctx, req, mode, logger)
}

func (f *Finder) collect(ctx context.Context, req Request, mode Mode, logger *log.Logger) (*UserRepoMap, error) {
	if err := f.logins.ValidateRepoRef(req.Owner, req.Repo); err != nil {
		return nil, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	src := f.sources(req.Token)

	if mode == ModeBulk {
		var users *UserRepoMap
		err := f.stage(ctx, "bulk", func(ctx context.Context) (n int, err error) {
			users, err = src.Bulk(ctx, req.Owner, req.Repo)
			if err != nil {
				return 0, err
			}
			return users.Len(), nil
		})
		if err != nil {
			return nil, err
		}
		logger.Info("bulk query done", "users", users.Len())
		return users, nil
	}

	var stargazers []string
	err := f.stage(ctx, "stargazers", func(ctx context.Context) (n int, err error) {
		stargazers, err = src.Stargazers(ctx, req.Owner, req.Repo, req.PageLimit)
		return len(stargazers), err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("stargazers fetched", "users", len(stargazers), "mode", mode)

	var users *UserRepoMap
	err = f.stage(ctx, "aggregate", func(ctx context.Context) (n int, err error) {
		users, err = BuildUserRepoMap(ctx, src, stargazers, req.PageLimit, AggregateOptions{
			Mode:      mode,
			BatchSize: f.batchSize,
			Logger:    logger,
		})
		if err != nil {
			return 0, err
		}
		return users.Len(), nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// stage runs fn inside a span and reports it to the stage hooks.
func (f *Finder) stage(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	ctx, span := f.tracer.Start(ctx, "neighbours."+name)
	hooks := observability.Stages()
	hooks.OnStageStart(ctx, name)
	start := time.Now()

	n, err := fn(ctx)

	span.SetAttributes(attribute.Int("count", n))
	observability.EndSpan(span, err)
	hooks.OnStageComplete(ctx, name, n, time.Since(start), err)
	return err
}
