package neighbours

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// fakeSource serves canned data and records how fetches overlap.
type fakeSource struct {
	stargazers []string
	starred    map[string][]string
	bulk       *UserRepoMap
	fail       map[string]error
	delay      time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32

	mu     sync.Mutex
	calls  []string
	events []string // "+user" on start, "-user" on return
}

func (s *fakeSource) Stargazers(_ context.Context, owner, repo string, _ int) ([]string, error) {
	if err := s.fail[owner+"/"+repo]; err != nil {
		return nil, err
	}
	return s.stargazers, nil
}

func (s *fakeSource) Starred(_ context.Context, user string, _ int) ([]string, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, user)
	s.events = append(s.events, "+"+user)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	defer func() {
		s.mu.Lock()
		s.events = append(s.events, "-"+user)
		s.mu.Unlock()
	}()

	if err := s.fail[user]; err != nil {
		return nil, err
	}
	repos, ok := s.starred[user]
	if !ok {
		return nil, fmt.Errorf("unknown user %s", user)
	}
	return repos, nil
}

func (s *fakeSource) Bulk(context.Context, string, string) (*UserRepoMap, error) {
	if err := s.fail["bulk"]; err != nil {
		return nil, err
	}
	return s.bulk, nil
}

func (s *fakeSource) factory() SourceFactory {
	return func(string) Source { return s }
}

func workedExample() *UserRepoMap {
	m := NewUserRepoMap()
	m.Set("user1", []string{"repo1", "repo2", "repo5"})
	m.Set("user2", []string{"repo2", "repo3"})
	m.Set("user3", []string{"repo2", "repo3", "repo4"})
	m.Set("user4", []string{"repo1", "repo4"})
	return m
}

func workedSource() *fakeSource {
	users := workedExample()
	starred := make(map[string][]string)
	for u, r := range users.All() {
		starred[u] = r
	}
	return &fakeSource{
		stargazers: users.Users(),
		starred:    starred,
		bulk:       users,
	}
}

func manyUsers(n int) *fakeSource {
	s := &fakeSource{starred: make(map[string][]string)}
	for i := range n {
		u := fmt.Sprintf("u%03d", i)
		s.stargazers = append(s.stargazers, u)
		s.starred[u] = []string{fmt.Sprintf("r/%d", i%7), "r/common"}
	}
	return s
}
