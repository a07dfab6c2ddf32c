package github

import (
	"regexp"
	"strings"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

var (
	publicLogin     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}$`)
	enterpriseLogin = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,38}$`)
	repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// LoginRules selects which owner logins are accepted. github.com logins
// never contain underscores; GitHub Enterprise managed users carry an
// "_shortcode" suffix, e.g. alice_corp.
type LoginRules int

const (
	PublicLogins LoginRules = iota
	EnterpriseLogins
)

// RulesFor returns the login rules of the API at baseURL: public rules for
// api.github.com (or an empty URL), enterprise rules for any other host.
func RulesFor(baseURL string) LoginRules {
	switch strings.TrimSuffix(baseURL, "/") {
	case "", DefaultBaseURL:
		return PublicLogins
	}
	return EnterpriseLogins
}

// ValidateRepoRef reports an INVALID_REPO error unless owner is a login
// under r and repo a repository name. Both end up in request paths, so
// anything else is refused before a request is built.
func (r LoginRules) ValidateRepoRef(owner, repo string) error {
	login := publicLogin
	if r == EnterpriseLogins {
		login = enterpriseLogin
	}
	switch {
	case owner == "":
		return errs.New(errs.ErrCodeInvalidRepo, "owner is required")
	case !login.MatchString(owner):
		return errs.New(errs.ErrCodeInvalidRepo, "invalid owner %q: expected up to 39 letters, digits or hyphens, not starting with a hyphen", owner)
	case repo == "":
		return errs.New(errs.ErrCodeInvalidRepo, "repository name is required")
	case repo == "." || repo == ".." || !repoNamePattern.MatchString(repo):
		return errs.New(errs.ErrCodeInvalidRepo, "invalid repository name %q", repo)
	}
	return nil
}

// ParseRepoRef splits a repository reference into owner and name. Besides
// "owner/repo" it accepts the forms copied from a browser or a clone URL:
//
//	github.com/owner/repo
//	https://github.com/owner/repo/
//	https://github.com/owner/repo.git
func (r LoginRules) ParseRepoRef(ref string) (owner, repo string, err error) {
	s := strings.TrimSpace(ref)
	for _, prefix := range []string{"https://", "http://", "github.com/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	owner, repo, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(repo, "/") {
		return "", "", errs.New(errs.ErrCodeInvalidRepo, "invalid repository %q: use owner/repo", ref)
	}
	if err := r.ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// ValidateRepoRef checks owner and repo against the github.com rules.
func ValidateRepoRef(owner, repo string) error {
	return PublicLogins.ValidateRepoRef(owner, repo)
}

// ParseRepoRef parses ref under the github.com rules.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	return PublicLogins.ParseRepoRef(ref)
}
