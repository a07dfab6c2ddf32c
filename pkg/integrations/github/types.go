package github

import (
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// Stargazer is one item of the stargazers listing. Only the login is read.
type Stargazer struct {
	Login string `json:"login"`
}

func (s Stargazer) validate() error {
	if s.Login == "" {
		return errs.New(errs.ErrCodeUpstreamPayload, "stargazer without login")
	}
	return nil
}

// StarredRepo is one item of a user's starred listing.
type StarredRepo struct {
	FullName string `json:"full_name"`
}

func (r StarredRepo) validate() error {
	if r.FullName == "" {
		return errs.New(errs.ErrCodeUpstreamPayload, "starred repository without full_name")
	}
	return nil
}

// StarredBy pairs a stargazer with the repositories they starred, as
// returned by the bulk query.
type StarredBy struct {
	Login string   `json:"login"`
	Repos []string `json:"repos"`
}
