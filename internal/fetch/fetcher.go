// Package fetch is the single HTTP path for every source adapter: shared
// client, response cache, per-host rate limiting, robots.txt gate, and a
// politeness delay between calls to the same provider.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/cache"
	"github.com/rxwatch/catalyst/internal/model"
)

// Fetcher retrieves source payloads with the politeness machinery applied.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache // nil disables caching
	limiter    *Limiter
	robots     *RobotsChecker // nil disables the robots gate
	delay      time.Duration
	logger     *zap.Logger
}

// New builds a fetcher from config. The cache may be nil.
func New(cfg *model.Config, c cache.Cache, logger *zap.Logger) *Fetcher {
	var robots *RobotsChecker
	if cfg.HTTP.CheckRobots {
		robots = NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		cache:     c,
		limiter:   NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst),
		robots:    robots,
		delay:     cfg.Concurrency.PolitenessDelay,
		logger:    logger,
	}
}

// Get retrieves the body at rawURL, honoring cache, robots, and rate
// limits. Non-2xx responses are errors.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.Key(rawURL)
	if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			return body, nil
		}
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, f.delay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.cache != nil {
		if err := f.cache.Set(key, body, 0); err != nil {
			f.logger.Warn("cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}

	return body, nil
}

// GetJSON retrieves rawURL with query params applied and decodes the JSON
// response into v.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	full := rawURL
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("parse url: %w", err)
		}
		q := u.Query()
		for k, vals := range params {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
		u.RawQuery = q.Encode()
		full = u.String()
	}

	body, err := f.Get(ctx, full)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// NewProxyFunc builds the transport proxy function. With no explicit
// proxies configured the environment variables apply, as usual.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
