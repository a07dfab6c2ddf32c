// Package neighbours finds the repositories whose stargazers overlap with
// those of a target repository.
//
// A search runs in three steps:
//
//  1. List the stargazers of the target.
//  2. List the repositories each stargazer starred, building a
//     [UserRepoMap].
//  3. Invert it into a [RepoUserMap], drop the target itself, keep repos
//     with at least the threshold of shared stargazers and sort them by
//     that count.
//
// Step 2 runs one user at a time ([ModeSequential]) or in parallel batches
// of [DefaultBatchSize] ([ModeConcurrent]). [ModeBulk] replaces steps 1
// and 2 with a single GraphQL query capped at 50 stargazers with 50 starred
// repositories each.
//
// # Usage
//
//	finder := neighbours.NewFinder(neighbours.GitHub(github.Config{}), neighbours.Options{})
//	res, err := finder.Concurrent(ctx, neighbours.Request{
//	    Owner:     "Mergifyio",
//	    Repo:      "mergify-engine",
//	    Token:     token,
//	    PageLimit: 2,
//	    Threshold: 2,
//	})
//	for _, n := range res.Sorted {
//	    fmt.Println(n.Repo, n.StargazersCount)
//	}
//
// # Ordering
//
// Every structure keeps insertion order, so results are deterministic for
// identical remote data: users follow stargazer order, repos follow the
// order they are first seen, and ties in the sorted result keep that order.
//
// # Failures
//
// Any failed request aborts the search. No partial result is returned.
package neighbours
