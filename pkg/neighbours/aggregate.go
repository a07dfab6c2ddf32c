package neighbours

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// DefaultBatchSize is the number of per-user fetches in flight at once in
// concurrent mode.
const DefaultBatchSize = 25

// StarLister lists the repositories a user starred.
type StarLister interface {
	Starred(ctx context.Context, user string, pageLimit int) ([]string, error)
}

// AggregateOptions configures [BuildUserRepoMap].
type AggregateOptions struct {
	Mode      Mode        // ModeSequential or ModeConcurrent
	BatchSize int         // defaults to DefaultBatchSize
	Logger    *log.Logger // defaults to log.Default()
}

// BuildUserRepoMap fetches the starred repositories of every stargazer and
// records them in stargazer order. Both modes issue the same requests and
// produce the same map; they differ only in how many run at once.
//
// In concurrent mode stargazers are split into consecutive batches of
// BatchSize. All fetches of a batch run in parallel and the next batch
// starts only once every fetch of the current one has returned. A failure
// does not cancel its siblings; it is reported after the batch finishes and
// no further batch starts.
//
// Any failure aborts the whole build: no partial map is returned.
func BuildUserRepoMap(ctx context.Context, src StarLister, stargazers []string, pageLimit int, opts AggregateOptions) (*UserRepoMap, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	switch opts.Mode {
	case ModeSequential:
		return buildSequential(ctx, src, stargazers, pageLimit, opts.Logger)
	case ModeConcurrent:
		size := opts.BatchSize
		if size <= 0 {
			size = DefaultBatchSize
		}
		return buildConcurrent(ctx, src, stargazers, pageLimit, size, opts.Logger)
	default:
		return nil, errs.New(errs.ErrCodeInvalidMode, "mode %q cannot aggregate per user", opts.Mode)
	}
}

func buildSequential(ctx context.Context, src StarLister, stargazers []string, pageLimit int, logger *log.Logger) (*UserRepoMap, error) {
	m := NewUserRepoMap()
	for i, user := range stargazers {
		repos, err := src.Starred(ctx, user, pageLimit)
		if err != nil {
			return nil, err
		}
		m.Set(user, repos)
		logger.Debug("fetched starred", "user", user, "repos", len(repos), "done", i+1, "total", len(stargazers))
	}
	return m, nil
}

func buildConcurrent(ctx context.Context, src StarLister, stargazers []string, pageLimit, size int, logger *log.Logger) (*UserRepoMap, error) {
	m := NewUserRepoMap()
	batches := (len(stargazers) + size - 1) / size

	for n, start := 1, 0; start < len(stargazers); n, start = n+1, start+size {
		batch := stargazers[start:min(start+size, len(stargazers))]
		slots := make([][]string, len(batch))

		var g errgroup.Group
		for i, user := range batch {
			g.Go(func() error {
				repos, err := src.Starred(ctx, user, pageLimit)
				if err != nil {
					return err
				}
				slots[i] = repos
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", n, batches, err)
		}

		for i, user := range batch {
			m.Set(user, slots[i])
		}
		logger.Debug("batch done", "batch", n, "of", batches, "users", len(batch))
	}
	return m, nil
}
