package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benjaminlong/mergify-algos/pkg/cache"
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/integrations"
)

func TestClient_BulkStarred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["owner"] != "o" || req.Variables["name"] != "r" {
			t.Errorf("variables = %v", req.Variables)
		}
		if v, ok := req.Variables["after"]; !ok || v != nil {
			t.Errorf("after = %v, want explicit null", v)
		}
		if req.Variables["first"] != float64(BulkPageSize) || req.Variables["perUser"] != float64(BulkPageSize) {
			t.Errorf("page sizes = %v / %v", req.Variables["first"], req.Variables["perUser"])
		}
		if !strings.Contains(req.Query, "starredRepositories(first: $perUser, orderBy: {field: STARRED_AT, direction: DESC})") {
			t.Errorf("query = %s", req.Query)
		}
		w.Write([]byte(`{"data":{"repository":{"name":"r","nameWithOwner":"o/r","stargazers":{"edges":[
			{"node":{"login":"u1","starredRepositories":{"totalCount":2,"nodes":[{"nameWithOwner":"a/x"},{"nameWithOwner":"o/r"}],"pageInfo":{"endCursor":"c","startCursor":"s","hasNextPage":false}}}},
			{"node":{"login":"u2","starredRepositories":{"totalCount":0,"nodes":[],"pageInfo":{"endCursor":null,"startCursor":null,"hasNextPage":false}}}}
		]}}}}`))
	}))
	defer server.Close()

	got, err := testClient(t, server.URL, "tok").BulkStarred(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("BulkStarred() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BulkStarred() = %d users, want 2", len(got))
	}
	if got[0].Login != "u1" || len(got[0].Repos) != 2 || got[0].Repos[0] != "a/x" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Login != "u2" || len(got[1].Repos) != 0 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestClient_BulkStarredErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a Repository"}]}`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").BulkStarred(context.Background(), "o", "missing")
	if !errs.Is(err, errs.ErrCodeUpstreamQuery) {
		t.Fatalf("code = %v, want UPSTREAM_QUERY", errs.GetCode(err))
	}
	if errs.HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want 500", errs.HTTPStatus(err))
	}
	detail, ok := errs.GetDetail(err).([]any)
	if !ok || len(detail) != 1 {
		t.Fatalf("detail = %#v, want the errors array", errs.GetDetail(err))
	}
	first, _ := detail[0].(map[string]any)
	if first["message"] != "Could not resolve to a Repository" {
		t.Errorf("detail[0] = %#v", detail[0])
	}
}

func TestClient_BulkStarredHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"This endpoint requires you to be authenticated."}`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").BulkStarred(context.Background(), "o", "r")
	if errs.HTTPStatus(err) != http.StatusUnauthorized {
		t.Errorf("HTTPStatus = %d, want 401", errs.HTTPStatus(err))
	}
}

const bulkOK = `{"data":{"repository":{"name":"r","nameWithOwner":"o/r","stargazers":{"edges":[
	{"node":{"login":"u1","starredRepositories":{"totalCount":1,"nodes":[{"nameWithOwner":"a/x"}],"pageInfo":{"endCursor":"c","startCursor":"c","hasNextPage":false}}}}
]}}}}`

func TestClient_BulkStarredCachesOnlySuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`{"data":null,"errors":[{"message":"Something went wrong while executing your query."}]}`))
			return
		}
		w.Write([]byte(bulkOK))
	}))
	defer server.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient("tok", Config{
		BaseURL:   server.URL,
		Transport: integrations.Options{Cache: fc, TTL: time.Hour},
	})
	ctx := context.Background()

	if _, err := c.BulkStarred(ctx, "o", "r"); !errs.Is(err, errs.ErrCodeUpstreamQuery) {
		t.Fatalf("first call code = %v, want UPSTREAM_QUERY", errs.GetCode(err))
	}

	for i := range 2 {
		got, err := c.BulkStarred(ctx, "o", "r")
		if err != nil {
			t.Fatalf("call %d error: %v", i+2, err)
		}
		if len(got) != 1 || got[0].Login != "u1" || got[0].Repos[0] != "a/x" {
			t.Errorf("call %d = %+v", i+2, got)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2: the failed answer must not be cached", calls.Load())
	}
}

func TestClient_BulkStarredUndecodable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").BulkStarred(context.Background(), "o", "r")
	if !errs.Is(err, errs.ErrCodeUpstreamPayload) {
		t.Errorf("code = %v, want UPSTREAM_PAYLOAD", errs.GetCode(err))
	}
}
