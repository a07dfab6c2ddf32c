package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminlong/mergify-algos/pkg/cache"
	"github.com/benjaminlong/mergify-algos/pkg/dataset"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

var fakeStarred = map[string][]string{
	"alice": {"o/t", "x/r1", "x/r2"},
	"bob":   {"x/r2", "x/r3"},
	"carol": {"x/r2", "x/r3", "x/r1"},
}

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/repos/o/t/stargazers":
			json.NewEncoder(w).Encode([]map[string]string{{"login": "alice"}, {"login": "bob"}, {"login": "carol"}})
		case strings.HasPrefix(r.URL.Path, "/users/"):
			user := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/users/"), "/starred")
			var out []map[string]string
			for _, repo := range fakeStarred[user] {
				out = append(out, map[string]string{"full_name": repo})
			}
			json.NewEncoder(w).Encode(out)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes args against a fresh CLI isolated from the user's
// settings and returns what the command printed as its result.
func runCLI(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("NEIGHBOURS_GITHUB_TOKEN", "")
	t.Setenv("NEIGHBOURS_API_URL", apiURL)

	var out bytes.Buffer
	c := New(io.Discard, LogDebug)
	c.out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFindJSON(t *testing.T) {
	gh := fakeGitHub(t)

	for _, mode := range []string{"concurrent", "sequential"} {
		t.Run(mode, func(t *testing.T) {
			out, err := runCLI(t, gh.URL, "find", "o/t", "--mode", mode, "--format", "json")
			require.NoError(t, err)

			var res neighbours.Result
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			require.Len(t, res.Sorted, 3)
			assert.Equal(t, "x/r2", res.Sorted[0].Repo)
			assert.Equal(t, []string{"x/r1", "x/r2", "x/r3"}, repos(res.Unordered))
		})
	}
}

func TestFindThresholdAndSaveUsers(t *testing.T) {
	gh := fakeGitHub(t)
	users := filepath.Join(t.TempDir(), "users.toml")

	out, err := runCLI(t, gh.URL, "find", "o/t", "--threshold", "3", "--format", "json", "--save-users", users)
	require.NoError(t, err)

	var res neighbours.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"x/r2"}, repos(res.Sorted))

	saved, err := dataset.ImportUsers(users)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, saved.Users())
}

func TestFindErrors(t *testing.T) {
	gh := fakeGitHub(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad ref", []string{"find", "not-a-ref"}},
		{"bad mode", []string{"find", "o/t", "--mode", "parallel"}},
		{"bad format", []string{"find", "o/t", "--format", "xml"}},
		{"bad page limit", []string{"find", "o/t", "--page-limit", "0"}},
		{"upstream 404", []string{"find", "o/missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, gh.URL, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRank(t *testing.T) {
	m := neighbours.NewUserRepoMap()
	for _, u := range []string{"alice", "bob", "carol"} {
		m.Set(u, fakeStarred[u])
	}
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, dataset.ExportUsers(m, path))

	out, err := runCLI(t, "http://unused.invalid", "rank", path, "--exclude", "o/t", "--format", "toml")
	require.NoError(t, err)

	res, err := dataset.ReadResult(strings.NewReader(out), dataset.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, []string{"x/r2", "x/r1", "x/r3"}, repos(res.Sorted))

	out, err = runCLI(t, "http://unused.invalid", "rank", path, "-x", "o/t", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"o/t"`)
}

func TestCachePath(t *testing.T) {
	out, err := runCLI(t, "http://unused.invalid", "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName), strings.TrimSpace(out))
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	var status bytes.Buffer
	c := New(&status, LogInfo)
	c.out = io.Discard
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	require.NoError(t, root.Execute())
	assert.Contains(t, status.String(), "Cache is empty")

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache", appName))
	require.NoError(t, err)
	require.NoError(t, fc.Set(context.Background(), "k", []byte("v"), time.Hour))

	status.Reset()
	root = c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	require.NoError(t, root.Execute())
	assert.Contains(t, status.String(), "Cleared 1 cached entries")
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "http://unused.invalid", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, appName)
		})
	}

	_, err := runCLI(t, "http://unused.invalid", "completion", "tcsh")
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	ns := []neighbours.Neighbour{
		{Repo: "x/r2", StargazersCount: 5, Stargazers: []string{"a", "b", "c", "d", "e"}},
		{Repo: "x/r1", StargazersCount: 1, Stargazers: []string{"a"}},
	}

	out := renderTable(ns, 0)
	assert.Contains(t, out, "x/r2")
	assert.Contains(t, out, "a, b, c, +2")
	assert.Less(t, strings.Index(out, "x/r2"), strings.Index(out, "x/r1"))

	out = renderTable(ns, 1)
	assert.NotContains(t, out, "x/r1")
	assert.Contains(t, out, "1 of 2 neighbours")

	assert.Contains(t, renderTable(nil, 0), "No neighbours found")
}

func TestRankTarget(t *testing.T) {
	assert.Equal(t, "o/t", rankTarget("users.json", []string{"o/t", "o/u"}))
	assert.Equal(t, "users", rankTarget("/tmp/users.json", nil))
}

func repos(ns []neighbours.Neighbour) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Repo
	}
	return out
}
