package neighbours

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// UserRepoMap maps each stargazer to the repositories they starred.
// Users iterate in first-insertion order.
type UserRepoMap struct {
	order []string
	repos map[string][]string
}

// NewUserRepoMap returns an empty map.
func NewUserRepoMap() *UserRepoMap {
	return &UserRepoMap{repos: make(map[string][]string)}
}

// Set stores repos for user. Setting an existing user replaces its repos
// and keeps its original position.
func (m *UserRepoMap) Set(user string, repos []string) {
	if _, ok := m.repos[user]; !ok {
		m.order = append(m.order, user)
	}
	m.repos[user] = repos
}

// Get returns the repos stored for user.
func (m *UserRepoMap) Get(user string) ([]string, bool) {
	r, ok := m.repos[user]
	return r, ok
}

// Len returns the number of users.
func (m *UserRepoMap) Len() int { return len(m.order) }

// Users returns the users in insertion order.
func (m *UserRepoMap) Users() []string { return slices.Clone(m.order) }

// All iterates users and their repos in insertion order.
func (m *UserRepoMap) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, u := range m.order {
			if !yield(u, m.repos[u]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object whose keys keep insertion
// order.
func (m *UserRepoMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(u)
		repos := m.repos[u]
		if repos == nil {
			repos = []string{}
		}
		v, err := json.Marshal(repos)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of user to repo list, keeping the
// order in which keys appear.
func (m *UserRepoMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errs.New(errs.ErrCodeInvalidInput, "user map must be a JSON object")
	}

	out := NewUserRepoMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		user, _ := tok.(string)
		var repos []string
		if err := dec.Decode(&repos); err != nil {
			return fmt.Errorf("repos of %q: %w", user, err)
		}
		out.Set(user, repos)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = *out
	return nil
}

// RepoUserMap maps each repository to the users who starred it. Repos
// iterate in the order they were first seen.
type RepoUserMap struct {
	order []string
	users map[string][]string
}

// NewRepoUserMap returns an empty map.
func NewRepoUserMap() *RepoUserMap {
	return &RepoUserMap{users: make(map[string][]string)}
}

// Add appends user to the list of repo, creating it on first sight. Adding
// the user last recorded for repo again is a no-op: a starred list can name
// a repo twice when stars change between page fetches, and Invert visits
// each user's repos together.
func (m *RepoUserMap) Add(repo, user string) {
	users, ok := m.users[repo]
	if !ok {
		m.order = append(m.order, repo)
	}
	if n := len(users); n > 0 && users[n-1] == user {
		return
	}
	m.users[repo] = append(users, user)
}

// Users returns the users recorded for repo.
func (m *RepoUserMap) Users(repo string) []string { return m.users[repo] }

// Len returns the number of repos.
func (m *RepoUserMap) Len() int { return len(m.order) }

// Repos returns the repos in first-seen order.
func (m *RepoUserMap) Repos() []string { return slices.Clone(m.order) }

// All iterates repos and their users in first-seen order.
func (m *RepoUserMap) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, r := range m.order {
			if !yield(r, m.users[r]) {
				return
			}
		}
	}
}

// Neighbour is a repository sharing stargazers with the target.
type Neighbour struct {
	Repo            string   `json:"repo" toml:"repo"`
	StargazersCount int      `json:"stargazers_count" toml:"stargazers_count"`
	Stargazers      []string `json:"stargazers" toml:"stargazers"`
}

// Result holds the neighbours of one search, in construction order and
// sorted by descending count. Sorted is a stable permutation of Unordered.
type Result struct {
	Unordered []Neighbour `json:"unordered"`
	Sorted    []Neighbour `json:"sorted"`
}

// Mode selects how starred repositories are gathered.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
	ModeBulk       Mode = "bulk"
)

// Modes lists the accepted modes.
var Modes = []Mode{ModeConcurrent, ModeSequential, ModeBulk}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Modes, m) {
		return m, nil
	}
	return "", errs.New(errs.ErrCodeInvalidMode, "unknown mode %q (want concurrent, sequential or bulk)", s)
}

// Request describes one neighbour search.
type Request struct {
	Owner     string
	Repo      string
	Token     string // empty means anonymous
	PageLimit int    // pages per listing; < 1 is treated as 1
	Threshold int    // minimum shared stargazers; <= 1 keeps everything
}

// FullName returns "owner/repo", the name excluded from the results.
func (r Request) FullName() string {
	return r.Owner + "/" + r.Repo
}
