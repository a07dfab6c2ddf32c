package neighbours

import (
	"cmp"
	"slices"
)

// Invert turns user→repos into repo→users. Users are visited in map order
// and repos in list order, so each repo's users keep that order and repos
// appear in the order first seen. Repos listed in exclude are skipped.
func Invert(m *UserRepoMap, exclude ...string) *RepoUserMap {
	out := NewRepoUserMap()
	for user, repos := range m.All() {
		for _, repo := range repos {
			if slices.Contains(exclude, repo) {
				continue
			}
			out.Add(repo, user)
		}
	}
	return out
}

// Neighbours returns one record per repo with at least threshold users,
// in repo order. A threshold <= 1 keeps every repo.
func Neighbours(m *RepoUserMap, threshold int) []Neighbour {
	out := make([]Neighbour, 0, m.Len())
	for repo, users := range m.All() {
		if len(users) < threshold {
			continue
		}
		out = append(out, Neighbour{
			Repo:            repo,
			StargazersCount: len(users),
			Stargazers:      slices.Clone(users),
		})
	}
	return out
}

// SortByCount returns a copy of ns ordered by descending stargazers count.
// Ties keep their relative order.
func SortByCount(ns []Neighbour) []Neighbour {
	sorted := slices.Clone(ns)
	slices.SortStableFunc(sorted, func(a, b Neighbour) int {
		return cmp.Compare(b.StargazersCount, a.StargazersCount)
	})
	return sorted
}

// Rank inverts m excluding the given repos, keeps repos with at least
// threshold stargazers and sorts them by descending count.
func Rank(m *UserRepoMap, exclude []string, threshold int) *Result {
	unordered := Neighbours(Invert(m, exclude...), threshold)
	return &Result{
		Unordered: unordered,
		Sorted:    SortByCount(unordered),
	}
}
