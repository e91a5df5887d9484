package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/pkgmirror/pkg/cache"
	"github.com/matzehuels/pkgmirror/pkg/httputil"
	"github.com/matzehuels/pkgmirror/pkg/observability"
)

// Client provides shared HTTP functionality for registry API clients.
// It handles caching, retry logic, request collapsing and common headers.
//
// A Client is safe for concurrent use. Concurrent downloads of the same URL
// share one request.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	headers  map[string]string
	refresh  bool
	attempts int
	delay    time.Duration
	maxBody  int64
	timeout  time.Duration
	group    singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetry sets the retry policy for retryable failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithRefresh makes every download bypass cached responses. Fresh
// responses are still written back to the cache.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithTimeout bounds a whole download, retries included. The bound is
// independent of the callers' contexts.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBody limits the accepted response size in bytes.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// NewClient creates a Client that caches responses in c under namespace
// for ttl. Headers are applied to all requests made through this client.
// Pass nil for c to disable caching and nil for headers if no default
// headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string, opts ...Option) *Client {
	client := &Client{
		http:     NewHTTPClient(),
		cache:    cache.Namespace(c, namespace),
		ttl:      ttl,
		headers:  headers,
		attempts: httputil.DefaultAttempts,
		delay:    httputil.DefaultDelay,
		maxBody:  maxResponseSize,
		timeout:  downloadTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Download returns the body of a GET request to rawURL. Cached bodies are
// returned without a request; fresh bodies are cached. Transient failures
// are retried with backoff before an error is returned.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, rawURL); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	// The shared fetch outlives any single caller: a caller that gives up
	// only stops waiting, the others still get the body.
	ch := c.group.DoChan(rawURL, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		var body []byte
		err := httputil.Retry(shared, c.attempts, c.delay, func() error {
			var err error
			body, err = c.fetch(shared, rawURL)
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(shared, rawURL, body, c.ttl); err == nil {
			observability.Cache().OnCacheSet(shared, cacheKeyType, len(body))
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%w: response from %s exceeds %d bytes", ErrNetwork, host, c.maxBody)
	}
	return data, nil
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(fmt.Errorf("%w: status %d (rate limited)", ErrNetwork, code))
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
