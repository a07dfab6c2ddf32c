package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	return NewClient(token, Config{BaseURL: serverURL})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestClient_Stargazers(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/stargazers" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		switch r.URL.Query().Get("page") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/owner/repo/stargazers?per_page=100&page=2>; rel="next"`, server.URL))
			writeJSON(w, []Stargazer{{Login: "u1"}, {Login: "u2"}})
		case "2":
			writeJSON(w, []Stargazer{{Login: "u3"}})
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	users, err := c.Stargazers(context.Background(), "owner", "repo", 5)
	if err != nil {
		t.Fatalf("Stargazers() error: %v", err)
	}

	want := []string{"u1", "u2", "u3"}
	if fmt.Sprint(users) != fmt.Sprint(want) {
		t.Errorf("Stargazers() = %v, want %v", users, want)
	}
}

func TestClient_StarredQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/u1/starred" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("sort") != "updated" || q.Get("direction") != "desc" || q.Get("per_page") != "100" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, []StarredRepo{{FullName: "a/x"}, {FullName: "b/y"}})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	repos, err := c.Starred(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Starred() error: %v", err)
	}
	if len(repos) != 2 || repos[0] != "a/x" || repos[1] != "b/y" {
		t.Errorf("Starred() = %v", repos)
	}
}

func TestClient_Authorization(t *testing.T) {
	var got, accept, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		accept = r.Header.Get("Accept")
		agent = r.Header.Get("User-Agent")
		writeJSON(w, []Stargazer{})
	}))
	defer server.Close()

	if _, err := testClient(t, server.URL, "secret").Stargazers(context.Background(), "o", "r", 1); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer secret" {
		t.Errorf("Authorization = %q", got)
	}
	if accept != "application/vnd.github.v3+json" {
		t.Errorf("Accept = %q", accept)
	}
	if !strings.HasPrefix(agent, "starneighbours/") {
		t.Errorf("User-Agent = %q", agent)
	}

	if _, err := testClient(t, server.URL, "").Stargazers(context.Background(), "o", "r", 1); err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("anonymous Authorization = %q, want empty", got)
	}
}

func TestFetchPages_Ceiling(t *testing.T) {
	var calls atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/list?page=%d>; rel="next"`, server.URL, n+1))
		writeJSON(w, []Stargazer{{Login: fmt.Sprintf("u%d", n)}})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	items, err := FetchPages[Stargazer](context.Background(), c.Client, server.URL+"/list", 2)
	if err != nil {
		t.Fatalf("FetchPages() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("requests = %d, want 2", calls.Load())
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestFetchPages_LimitBelowOne(t *testing.T) {
	var calls atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/list?page=2>; rel="next"`, server.URL))
		writeJSON(w, []Stargazer{{Login: "u"}})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	if _, err := FetchPages[Stargazer](context.Background(), c.Client, server.URL+"/list", 0); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
}

func TestFetchPages_ErrorAbortsWithoutPartialResult(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/list?page=2>; rel="next"`, server.URL))
		writeJSON(w, []Stargazer{{Login: "u1"}})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	items, err := FetchPages[Stargazer](context.Background(), c.Client, server.URL+"/list", 3)
	if err == nil {
		t.Fatal("expected error")
	}
	if items != nil {
		t.Errorf("partial result returned: %v", items)
	}
	if errs.HTTPStatus(err) != http.StatusUnauthorized {
		t.Errorf("HTTPStatus = %d, want 401", errs.HTTPStatus(err))
	}
}

func TestFetchPages_InvalidItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"full_name":"a/b"},{"id":3}]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	_, err := FetchPages[StarredRepo](context.Background(), c.Client, server.URL, 1)
	if !errs.Is(err, errs.ErrCodeUpstreamPayload) {
		t.Errorf("code = %v, want UPSTREAM_PAYLOAD", errs.GetCode(err))
	}
}

func TestFetchPages_NotAList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"hello"}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")
	_, err := FetchPages[Stargazer](context.Background(), c.Client, server.URL, 1)
	if !errs.Is(err, errs.ErrCodeUpstreamPayload) {
		t.Errorf("code = %v, want UPSTREAM_PAYLOAD", errs.GetCode(err))
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"Mergifyio/mergify-engine", "Mergifyio", "mergify-engine", false},
		{"pallets/flask.ext", "pallets", "flask.ext", false},
		{"noslash", "", "", true},
		{"-bad/repo", "", "", true},
		{"owner/", "", "", true},
		{"owner/..", "", "", true},
		{"owner/re po", "", "", true},
		{"github.com/cli/cli", "cli", "cli", false},
		{"https://github.com/cli/cli/", "cli", "cli", false},
		{"https://github.com/cli/cli.git", "cli", "cli", false},
		{"https://github.com/cli/cli/issues", "", "", true},
		{"https://gitlab.com/cli/cli", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.ErrCodeInvalidRepo) {
					t.Errorf("code = %v, want INVALID_REPO", errs.GetCode(err))
				}
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoRef(%q) = %s, %s", tt.ref, owner, repo)
			}
		})
	}
}

func TestLoginRules(t *testing.T) {
	if RulesFor("") != PublicLogins || RulesFor(DefaultBaseURL+"/") != PublicLogins {
		t.Error("api.github.com should use public login rules")
	}
	ghe := RulesFor("https://ghe.example.com/api/v3")
	if ghe != EnterpriseLogins {
		t.Fatalf("RulesFor(enterprise) = %v, want EnterpriseLogins", ghe)
	}

	if err := ValidateRepoRef("alice_corp", "tools"); !errs.Is(err, errs.ErrCodeInvalidRepo) {
		t.Errorf("public rules accepted an underscore login: %v", err)
	}
	if err := ghe.ValidateRepoRef("alice_corp", "tools"); err != nil {
		t.Errorf("enterprise rules rejected a managed user login: %v", err)
	}
	if err := ghe.ValidateRepoRef("_corp", "tools"); err == nil {
		t.Error("enterprise rules accepted a login starting with an underscore")
	}

	owner, repo, err := ghe.ParseRepoRef("alice_corp/tools")
	if err != nil || owner != "alice_corp" || repo != "tools" {
		t.Errorf("ParseRepoRef() = %s, %s, %v", owner, repo, err)
	}
}
