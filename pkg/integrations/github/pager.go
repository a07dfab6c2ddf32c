package github

import (
	"context"
	"fmt"

	"github.com/benjaminlong/mergify-algos/pkg/integrations"
)

// item is a list element that can check its own required fields.
type item interface {
	validate() error
}

// FetchPages requests startURL and follows rel="next" links until no next
// link remains or pageLimit pages have been fetched, whichever comes first.
// Hitting the limit is not an error; the result is silently truncated.
// pageLimit < 1 is treated as 1.
//
// Any failed request aborts the whole listing: no partial result is
// returned. A page is cached only once it decoded and every item passed
// validation.
func FetchPages[T item](ctx context.Context, c *integrations.Client, startURL string, pageLimit int) ([]T, error) {
	pageLimit = max(pageLimit, 1)

	var out []T
	next := startURL
	for page := 1; ; page++ {
		var items []T
		resp, err := c.Get(ctx, next, func(r *integrations.Response) error {
			items = nil
			if err := r.Decode(&items); err != nil {
				return err
			}
			for _, it := range items {
				if err := it.validate(); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, items...)

		u, ok := NextURL(resp.Header)
		if !ok || page >= pageLimit {
			return out, nil
		}
		next = u
	}
}
