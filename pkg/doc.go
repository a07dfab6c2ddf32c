// Package pkg provides the libraries behind starneighbours.
//
// # Overview
//
// Starneighbours answers one question about a GitHub repository: which other
// repositories do its stargazers also star? Repositories sharing many
// stargazers with the target are its "star neighbours".
//
// The typical data flow:
//
//	owner/repo
//	    ↓
//	[integrations/github] list stargazers (Link-paginated, page ceiling)
//	    ↓
//	[neighbours] fetch each stargazer's starred repos (sequential or in batches)
//	    ↓
//	[neighbours] invert user → repos into repo → users, filter, sort
//	    ↓
//	table / JSON / TOML / DOT / SVG
//
// # Quick Start
//
//	finder := neighbours.NewFinder(neighbours.GitHub(github.Config{}), neighbours.Options{})
//	res, err := finder.Concurrent(ctx, neighbours.Request{
//	    Owner: "cli", Repo: "cli", Token: os.Getenv("GITHUB_TOKEN"),
//	    PageLimit: 2, Threshold: 2,
//	})
//	for _, n := range res.Sorted {
//	    fmt.Println(n.Repo, n.StargazersCount)
//	}
//
// # Package Organization
//
// ## Domain
//
// [neighbours] - User maps, inversion, ranking and the search orchestration
// (sequential, concurrent and bulk entry points).
//
// [dataset] - JSON and TOML files of user maps and results, for offline
// ranking.
//
// [render/nodelink] - Graphviz diagrams of a result.
//
// ## Remote API
//
// [integrations] - Shared HTTP client: headers, status mapping, retry policy,
// rate limiting, response cache and hooks.
//
// [integrations/github] - Stargazer and starred listings, Link pagination and
// the GraphQL bulk query.
//
// ## Infrastructure
//
// [cache] - Response cache backends (null, file, Redis) and token-scoped keys.
//
// [config] - Settings from defaults, .env, config file and environment.
//
// [errors] - Structured errors carrying codes, upstream status and detail.
//
// [httputil] - Retry policies.
//
// [observability] - Hooks and OpenTelemetry tracing.
//
// [secret] - Token masking for display.
//
// [buildinfo] - Version information set at build time.
//
// [neighbours]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/neighbours
// [dataset]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/dataset
// [render/nodelink]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/render/nodelink
// [integrations]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/integrations/github
// [cache]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/cache
// [config]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/config
// [errors]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/observability
// [secret]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/secret
// [buildinfo]: https://pkg.go.dev/github.com/benjaminlong/mergify-algos/pkg/buildinfo
package pkg
