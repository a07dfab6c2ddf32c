package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/benjaminlong/mergify-algos/pkg/cache"
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/httputil"
	"github.com/benjaminlong/mergify-algos/pkg/observability"
)

// Options configures a [Client]. The zero value is a usable client: no
// default headers, a single attempt per request, no rate limit and no cache.
type Options struct {
	HTTP    *http.Client      // defaults to NewHTTPClient(DefaultTimeout)
	Headers map[string]string // applied to every request
	Retry   httputil.Policy   // defaults to httputil.NoRetry
	Limiter *rate.Limiter     // nil means unlimited
	Cache   cache.Cache       // defaults to cache.NullCache
	Keyer   cache.Keyer       // defaults to cache.DefaultKeyer
	TTL     time.Duration     // lifetime of cached responses
}

// Client provides the shared HTTP plumbing for remote API clients.
// It applies default headers, maps non-2xx responses to structured errors,
// and routes every request through the retry policy, rate limiter and cache.
type Client struct {
	http    *http.Client
	headers map[string]string
	retry   httputil.Policy
	limiter *rate.Limiter
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
}

// Response is a successful (2xx) response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into v. A body that is not valid JSON for v is
// reported as an UPSTREAM_PAYLOAD error.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errs.Wrap(errs.ErrCodeUpstreamPayload, err, "decode response body")
	}
	return nil
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		http:    opts.HTTP,
		headers: opts.Headers,
		retry:   opts.Retry,
		limiter: opts.Limiter,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.TTL,
	}
	if c.http == nil {
		c.http = NewHTTPClient(DefaultTimeout)
	}
	if c.retry == nil {
		c.retry = httputil.NoRetry
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	return c
}

// Accept inspects a freshly fetched response, typically by decoding and
// validating its body. A non-nil error is returned to the caller and keeps
// the response out of the cache.
type Accept func(*Response) error

// Get performs an HTTP GET and returns the response. When accept is not nil
// the response is cached only after accept returns nil; a cached response
// that accept rejects is fetched again.
func (c *Client) Get(ctx context.Context, rawURL string, accept Accept) (*Response, error) {
	return c.cached(ctx, c.keyer.PageKey(rawURL), accept, func() (*Response, error) {
		return c.do(ctx, http.MethodGet, rawURL, nil)
	})
}

// cachedResponse is the stored form of a response. Only the headers the
// callers read back are kept.
type cachedResponse struct {
	Status int    `json:"status"`
	Link   string `json:"link,omitempty"`
	Body   []byte `json:"body"`
}

func (c *Client) cached(ctx context.Context, key string, accept Accept, fetch func() (*Response, error)) (*Response, error) {
	if accept == nil {
		accept = func(*Response) error { return nil }
	}

	if data, ok, _ := c.cache.Get(ctx, key); ok {
		var cr cachedResponse
		if json.Unmarshal(data, &cr) == nil {
			h := http.Header{}
			if cr.Link != "" {
				h.Set("Link", cr.Link)
			}
			resp := &Response{Status: cr.Status, Header: h, Body: cr.Body}
			if accept(resp) == nil {
				observability.Cache().OnCacheHit(ctx, "page")
				return resp, nil
			}
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "page")

	resp, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := accept(resp); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedResponse{Status: resp.Status, Link: resp.Header.Get("Link"), Body: resp.Body}); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "page", len(data))
		}
	}
	return resp, nil
}

// Remember fills v from the cache entry of a query sent to rawURL with the
// given variables, or calls fetch to fill it. v is stored only when fetch
// succeeds, so a failed query is retried by the next call.
func (c *Client) Remember(ctx context.Context, rawURL string, variables any, v any, fetch func() error) error {
	vars, err := json.Marshal(variables)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode query variables")
	}
	key := c.keyer.QueryKey(rawURL, vars)

	if data, ok, _ := c.cache.Get(ctx, key); ok {
		if json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, "query")
			return nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "query")

	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "query", len(data))
		}
	}
	return nil
}

// HTTPClient returns an *http.Client sending requests through c, for
// libraries that take one. See [Client.RoundTrip].
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c}
}

// RoundTrip implements [http.RoundTripper] on top of the client's headers,
// rate limiter and retry policy. Non-2xx answers are returned as the same
// structured errors Get returns, so callers keep the upstream status.
// Nothing sent through RoundTrip is cached; use [Client.Remember] once the
// decoded result is known to be good.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "read request body")
		}
		body = data
	}

	resp, err := c.do(req.Context(), req.Method, req.URL.String(), body)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		StatusCode:    resp.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        resp.Header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (*Response, error) {
	var resp *Response
	err := c.retry(ctx, func() error {
		r, err := c.once(ctx, method, rawURL, body)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		var re *httputil.RetryableError
		if errors.As(err, &re) {
			return nil, re.Err
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) once(ctx context.Context, method, rawURL string, body []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	host, path := endpoint(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, &httputil.RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, &httputil.RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "read %s %s", method, path)}
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(method, path, resp, data); err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func checkStatus(method, path string, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	err := errs.Upstream(code, body, "%s %s", method, path)
	err.Cause = rateLimitCause(code, resp.Header)
	if code >= 500 || code == http.StatusTooManyRequests {
		return &httputil.RetryableError{Err: err}
	}
	return err
}

// endpoint splits a URL into host and path for hooks and error messages,
// leaving out the query string.
func endpoint(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
