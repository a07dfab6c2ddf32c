package github

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/benjaminlong/mergify-algos/pkg/buildinfo"
	"github.com/benjaminlong/mergify-algos/pkg/cache"
	"github.com/benjaminlong/mergify-algos/pkg/integrations"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultPerPage is the largest page size the list endpoints accept.
	DefaultPerPage = 100
)

// Config configures a [Client].
type Config struct {
	BaseURL   string               // defaults to DefaultBaseURL
	PerPage   int                  // defaults to DefaultPerPage
	Transport integrations.Options // headers are completed by NewClient
}

// Client provides access to the GitHub stargazer and starred listings.
// A client is bound to one token; build one per invocation when tokens vary.
type Client struct {
	*integrations.Client
	baseURL string
	perPage int
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(token string, cfg Config) *Client {
	opts := cfg.Transport

	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	maps.Copy(headers, opts.Headers)
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	opts.Headers = headers

	if opts.Keyer == nil {
		opts.Keyer = cache.NewScopedKeyer(nil, cache.TokenScope(token))
	}

	c := &Client{
		Client:  integrations.NewClient(opts),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		perPage: cfg.PerPage,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.perPage <= 0 {
		c.perPage = DefaultPerPage
	}
	return c
}

// Stargazers lists the logins of the users who starred owner/repo, in the
// order GitHub returns them, reading at most pageLimit pages.
func (c *Client) Stargazers(ctx context.Context, owner, repo string, pageLimit int) ([]string, error) {
	q := url.Values{"per_page": {fmt.Sprint(c.perPage)}}
	u := fmt.Sprintf("%s/repos/%s/%s/stargazers?%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo), q.Encode())

	items, err := FetchPages[Stargazer](ctx, c.Client, u, pageLimit)
	if err != nil {
		return nil, fmt.Errorf("stargazers of %s/%s: %w", owner, repo, err)
	}

	logins := make([]string, len(items))
	for i, s := range items {
		logins[i] = s.Login
	}
	return logins, nil
}

// Starred lists the full names of the repositories user starred, most
// recently updated first, reading at most pageLimit pages.
func (c *Client) Starred(ctx context.Context, user string, pageLimit int) ([]string, error) {
	q := url.Values{
		"direction": {"desc"},
		"per_page":  {fmt.Sprint(c.perPage)},
		"sort":      {"updated"},
	}
	u := fmt.Sprintf("%s/users/%s/starred?%s", c.baseURL, url.PathEscape(user), q.Encode())

	items, err := FetchPages[StarredRepo](ctx, c.Client, u, pageLimit)
	if err != nil {
		return nil, fmt.Errorf("starred of %s: %w", user, err)
	}

	names := make([]string, len(items))
	for i, r := range items {
		names[i] = r.FullName
	}
	return names, nil
}
