// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// The client reads the two listings the neighbour search needs, plus a
// GraphQL shortcut that returns both in one request:
//
//   - [Client.Stargazers]: users who starred a repository
//   - [Client.Starred]: repositories a user starred, most recently updated first
//   - [Client.BulkStarred]: the first 50 stargazers with their 50 latest stars
//
// # Usage
//
//	client := github.NewClient(token, github.Config{})
//
//	users, err := client.Stargazers(ctx, "pallets", "flask", 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, u := range users {
//	    repos, err := client.Starred(ctx, u, 2)
//	    ...
//	}
//
// # Pagination
//
// List endpoints are read with [FetchPages], which follows the rel="next"
// entry of the Link header. The page limit bounds the number of requests;
// reaching it truncates the listing without an error.
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Responses can be cached by passing a cache in [Config.Transport]. Cache
// keys are scoped by a hash of the token so that clients with different
// credentials never share entries.
package github
