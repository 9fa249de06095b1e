package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrlayout/internal/cache"
	"github.com/gardar/ocrlayout/pkg/layout"
)

// countingCache records cache traffic on top of an in-memory store
type countingCache struct {
	*cache.Memory
	mu   sync.Mutex
	hits int
	sets int
	ping error
}

func (c *countingCache) Get(ctx context.Context, key string) (*layout.PageResult, error) {
	r, err := c.Memory.Get(ctx, key)
	if err == nil {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return r, err
}

func (c *countingCache) Set(ctx context.Context, key string, result *layout.PageResult) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Memory.Set(ctx, key, result)
}

func (c *countingCache) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ping
}

func (c *countingCache) counts() (hits, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.sets
}

func (c *countingCache) failPing(err error) {
	c.mu.Lock()
	c.ping = err
	c.mu.Unlock()
}

func newTestServer(t *testing.T) (*httptest.Server, *countingCache) {
	t.Helper()
	engine, err := layout.New(layout.DefaultConfig(), layout.WithWorkers(2))
	require.NoError(t, err)
	c := &countingCache{Memory: cache.NewMemory()}
	srv := httptest.NewServer(NewRouter(NewHandler(engine, c, nil, 0)))
	t.Cleanup(srv.Close)
	return srv, c
}

const pageBody = `{"page":1,"words":[
 {"text":"Hello","location":{"left":10,"top":10,"width":50,"height":12},"probability":0.9},
 {"text":"world","location":{"left":70,"top":11,"width":50,"height":12}},
 {"text":"Next","location":{"left":10,"top":90,"width":40,"height":12}}
]}`

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPage(t *testing.T) {
	srv, c := newTestServer(t)

	resp := post(t, srv.URL+"/v1/pages", pageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result layout.PageResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.PageNumber)
	assert.Equal(t, "Hello world\n\nNext", result.PlainText)
	_, sets := c.counts()
	assert.Equal(t, 1, sets)

	// The same page is answered from the cache
	resp = post(t, srv.URL+"/v1/pages", pageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hits, sets := c.counts()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, sets)
}

func TestPage_Overrides(t *testing.T) {
	srv, c := newTestServer(t)

	resp := post(t, srv.URL+"/v1/pages?paragraph_gap=10&line_tolerance=4", pageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result layout.PageResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Hello world\nNext", result.PlainText, "a large gap multiplier keeps one paragraph")

	// Different thresholds do not share cache entries
	post(t, srv.URL+"/v1/pages", pageBody)
	hits, _ := c.counts()
	assert.Equal(t, 0, hits)
	assert.Equal(t, 2, c.Len())
}

func TestPage_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/v1/pages", `{"words":`},
		{"bad float", "/v1/pages?line_tolerance=wide", pageBody},
		{"bad int", "/v1/pages?header_max_chars=1.5", pageBody},
		{"bad bool", "/v1/pages?heuristic_tables=maybe", pageBody},
		{"invalid threshold", "/v1/pages?column_tolerance=-3", pageBody},
		{"NaN threshold", "/v1/pages?line_tolerance=NaN", pageBody},
		{"infinite threshold", "/v1/pages?paragraph_gap=%2BInf", pageBody},
		{"empty document", "/v1/documents", `{"pages":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDocument(t *testing.T) {
	srv, c := newTestServer(t)

	// Warm the cache with page 1 only
	post(t, srv.URL+"/v1/pages", pageBody)

	second := strings.Replace(pageBody, `"page":1`, `"page":2`, 1)
	third := `{"page":3,"words":[]}`
	resp := post(t, srv.URL+"/v1/documents", `{"pages":[`+pageBody+`,`+second+`,`+third+`]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc DocumentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Len(t, doc.Pages, 3)
	for i, p := range doc.Pages {
		assert.Equal(t, i+1, p.PageNumber)
	}
	assert.Equal(t, "Hello world\n\nNext", doc.Pages[1].PlainText)
	assert.Empty(t, doc.Pages[2].PlainText)
	hits, _ := c.counts()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, c.Len())
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/pages")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c.failPing(errors.New("connection refused"))
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
