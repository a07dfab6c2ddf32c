package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shurcooL/graphql"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// BulkPageSize caps both the stargazers and the starred repositories per
// stargazer fetched by [Client.BulkStarred].
const BulkPageSize = 50

// bulkQuery is the shape of the bulk document. Cursors are decoded but not
// followed.
type bulkQuery struct {
	Repository struct {
		Name          graphql.String
		NameWithOwner graphql.String
		Stargazers    struct {
			Edges []struct {
				Node struct {
					Login               graphql.String
					StarredRepositories struct {
						TotalCount graphql.Int
						Nodes      []struct {
							NameWithOwner graphql.String
						}
						PageInfo struct {
							EndCursor   *graphql.String
							StartCursor *graphql.String
							HasNextPage graphql.Boolean
						}
					} `graphql:"starredRepositories(first: $perUser, orderBy: {field: STARRED_AT, direction: DESC})"`
				}
			}
		} `graphql:"stargazers(first: $first, after: $after)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// BulkStarred fetches the first BulkPageSize stargazers of owner/repo with
// the first BulkPageSize repositories each of them starred, most recent
// star first, in a single GraphQL request. Continuation cursors are not
// followed.
//
// A response carrying an "errors" member fails with code UPSTREAM_QUERY and
// the errors array as detail, even when partial data is present. Only
// successful results are cached.
func (c *Client) BulkStarred(ctx context.Context, owner, repo string) ([]StarredBy, error) {
	endpoint := c.baseURL + "/graphql"
	vars := map[string]any{
		"owner":   graphql.String(owner),
		"name":    graphql.String(repo),
		"first":   graphql.Int(BulkPageSize),
		"perUser": graphql.Int(BulkPageSize),
		"after":   (*graphql.String)(nil),
	}

	var out []StarredBy
	err := c.Remember(ctx, endpoint, vars, &out, func() error {
		var q bulkQuery
		if err := c.gqlClient(endpoint).Query(ctx, &q, vars); err != nil {
			return queryError(ctx, owner, repo, err)
		}
		if q.Repository.NameWithOwner == "" {
			return errs.New(errs.ErrCodeUpstreamPayload, "bulk query for %s/%s returned no repository", owner, repo)
		}

		edges := q.Repository.Stargazers.Edges
		out = make([]StarredBy, 0, len(edges))
		for _, e := range edges {
			if e.Node.Login == "" {
				return errs.New(errs.ErrCodeUpstreamPayload, "stargazer without login")
			}
			repos := make([]string, 0, len(e.Node.StarredRepositories.Nodes))
			for _, n := range e.Node.StarredRepositories.Nodes {
				repos = append(repos, string(n.NameWithOwner))
			}
			out = append(out, StarredBy{Login: string(e.Node.Login), Repos: repos})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) gqlClient(endpoint string) *graphql.Client {
	return graphql.NewClient(endpoint, c.HTTPClient())
}

// queryError classifies an error returned by the GraphQL client. Transport
// failures already carry a code; a list of GraphQL errors becomes
// UPSTREAM_QUERY; anything else is an undecodable answer.
func queryError(ctx context.Context, owner, repo string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errs.GetCode(err) != "" {
		return fmt.Errorf("bulk query for %s/%s: %w", owner, repo, err)
	}
	if detail, ok := graphQLErrors(err); ok {
		return errs.Query(detail, "bulk query for %s/%s returned errors", owner, repo)
	}
	return errs.Wrap(errs.ErrCodeUpstreamPayload, err, "decode bulk query for %s/%s", owner, repo)
}

// graphQLErrors recovers the "errors" array from the GraphQL client's error
// value, which is a list of {Message, Locations}. Keys are lower-cased to
// match the wire names.
func graphQLErrors(err error) ([]any, bool) {
	data, mErr := json.Marshal(err)
	if mErr != nil || len(data) == 0 || data[0] != '[' {
		return nil, false
	}
	var list []map[string]any
	if json.Unmarshal(data, &list) != nil || len(list) == 0 {
		return nil, false
	}
	out := make([]any, len(list))
	for i, e := range list {
		m := make(map[string]any, len(e))
		for k, v := range e {
			m[strings.ToLower(k[:1])+k[1:]] = v
		}
		out[i] = m
	}
	return out, true
}
