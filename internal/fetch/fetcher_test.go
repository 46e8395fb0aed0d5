package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/cache"
	"github.com/rxwatch/catalyst/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.CheckRobots = false
	cfg.Concurrency.RequestsPerSecond = 1000
	cfg.Concurrency.Burst = 1000
	cfg.Concurrency.PolitenessDelay = 0
	return cfg
}

func newTestFetcher(t *testing.T, c cache.Cache) *Fetcher {
	t.Helper()
	return New(testConfig(), c, zap.NewNop())
}

func TestGet_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("request sent without a User-Agent")
		}
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	body, err := f.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("expected body %q, got %q", "hello", body)
	}
}

func TestGet_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	if _, err := f.Get(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestGet_CacheHitSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, cache.NewMemory(time.Minute, time.Minute))
	for i := 0; i < 3; i++ {
		body, err := f.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if string(body) != "fresh" {
			t.Errorf("get %d: expected %q, got %q", i, "fresh", body)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 network call, got %d", n)
	}
}

func TestGet_BodyCappedAtMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.HTTP.MaxBodyBytes = 64
	f := New(cfg, nil, zap.NewNop())

	body, err := f.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 64 {
		t.Errorf("expected body capped at 64 bytes, got %d", len(body))
	}
}

func TestGet_RedirectCap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	if _, err := f.Get(context.Background(), srv.URL); err == nil {
		t.Error("expected error after redirect cap")
	}
}

func TestGetJSON_DecodesWithParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "status:AP" {
			t.Errorf("expected search param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 7}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	var out struct {
		Count int `json:"count"`
	}
	params := url.Values{"search": {"status:AP"}}
	if err := f.GetJSON(context.Background(), srv.URL, params, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Count != 7 {
		t.Errorf("expected count 7, got %d", out.Count)
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	var out map[string]any
	if err := f.GetJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Error("expected decode error for non-JSON body")
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:8080", "http://sproxy.local:8443")

	httpReq := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	u, err := proxy(httpReq)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.Host != "proxy.local:8080" {
		t.Errorf("expected http proxy, got %v", u)
	}

	httpsReq := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	u, err = proxy(httpsReq)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.Host != "sproxy.local:8443" {
		t.Errorf("expected https proxy, got %v", u)
	}
}
