package neighbours

import (
	"context"

	"github.com/benjaminlong/mergify-algos/pkg/integrations/github"
)

// Source is the remote data a search reads.
type Source interface {
	StarLister

	// Stargazers lists the users who starred owner/repo, in remote order.
	Stargazers(ctx context.Context, owner, repo string, pageLimit int) ([]string, error)

	// Bulk returns stargazers and their starred repositories in one call.
	Bulk(ctx context.Context, owner, repo string) (*UserRepoMap, error)
}

// SourceFactory builds a Source bound to one token.
type SourceFactory func(token string) Source

// GitHub returns a factory of GitHub-backed sources sharing cfg.
func GitHub(cfg github.Config) SourceFactory {
	return func(token string) Source {
		return &githubSource{Client: github.NewClient(token, cfg)}
	}
}

type githubSource struct {
	*github.Client
}

func (s *githubSource) Bulk(ctx context.Context, owner, repo string) (*UserRepoMap, error) {
	stars, err := s.BulkStarred(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	m := NewUserRepoMap()
	for _, sb := range stars {
		m.Set(sb.Login, sb.Repos)
	}
	return m, nil
}
