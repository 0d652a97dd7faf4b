// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/stacklok/skillscout/catalog"
)

const (
	// DefaultBaseURL is the public skills catalog.
	DefaultBaseURL = "https://skills.sh"

	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 7 * time.Second

	// DefaultRetries is the number of additional attempts after the first.
	DefaultRetries = 2

	// DefaultBackoff is the base of the linear delay between attempts: the
	// n-th retry waits n times this value.
	DefaultBackoff = 250 * time.Millisecond

	// maxBodySize caps how much of a response is read.
	maxBodySize int64 = 16 * 1024 * 1024

	defaultUserAgent = "skillscout"
)

// Compile-time interface check.
var _ Fetcher = (*Client)(nil)

// Client talks to the skills catalog API with per-attempt timeouts, linear
// backoff retries and a short-lived response cache. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	backoff    time.Duration
	userAgent  string
	logger     *zap.Logger

	cache *responseCache
	group singleflight.Group

	// sleep waits between attempts. Tests replace it to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	backoff    time.Duration
	cacheTTL   time.Duration
	userAgent  string
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL sets the catalog address. The default is DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithRetries sets how many additional attempts follow a failed one.
func WithRetries(n int) Option {
	return func(o *clientOptions) {
		o.retries = max(n, 0)
	}
}

// WithBackoff sets the base delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(o *clientOptions) {
		o.backoff = d
	}
}

// WithCacheTTL sets how long successful responses are reused. Zero disables
// caching.
func WithCacheTTL(d time.Duration) Option {
	return func(o *clientOptions) {
		o.cacheTTL = d
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// withClock overrides the cache time source.
func withClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}

// NewClient creates a catalog client.
func NewClient(opts ...Option) *Client {
	o := clientOptions{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		retries:    DefaultRetries,
		backoff:    DefaultBackoff,
		cacheTTL:   DefaultCacheTTL,
		userAgent:  defaultUserAgent,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return &Client{
		baseURL:    o.baseURL,
		httpClient: o.httpClient,
		timeout:    o.timeout,
		retries:    o.retries,
		backoff:    o.backoff,
		userAgent:  o.userAgent,
		logger:     o.logger,
		cache:      newResponseCache(o.cacheTTL, o.now),
		sleep:      sleepContext,
	}
}

// FetchSearch queries GET {base}/api/search?q=&limit=.
func (c *Client) FetchSearch(ctx context.Context, query string, limit int) (*Page, error) {
	endpoint := fmt.Sprintf("%s/api/search?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)
	return c.get(ctx, endpoint)
}

// FetchList queries GET {base}/api/skills/{view}/{page}.
func (c *Client) FetchList(ctx context.Context, view catalog.View, page int) (*Page, error) {
	endpoint := fmt.Sprintf("%s/api/skills/%s/%s", c.baseURL, url.PathEscape(string(view)), strconv.Itoa(page))
	return c.get(ctx, endpoint)
}

// Purge drops every cached response.
func (c *Client) Purge() {
	c.cache.purge()
}

// get serves endpoint from the cache or fetches it, coalescing concurrent
// requests for the same endpoint into one upstream call.
func (c *Client) get(ctx context.Context, endpoint string) (*Page, error) {
	if page, ok := c.cache.get(endpoint); ok {
		return page, nil
	}

	// The shared fetch must not die with whichever caller started it; the
	// per-attempt timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(endpoint, func() (any, error) {
		page, err := c.fetchWithRetry(shared, endpoint)
		if err != nil {
			return nil, err
		}
		c.cache.put(endpoint, page)
		return page, nil
	})

	select {
	case <-ctx.Done():
		return nil, &Error{Kind: KindUnavailable, URL: endpoint, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Page).clone(), nil
	}
}

func (c *Client) fetchWithRetry(ctx context.Context, endpoint string) (*Page, error) {
	var lastErr *Error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(attempt)
			c.logger.Debug("retrying upstream request",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := c.sleep(ctx, delay); err != nil {
				return nil, lastErr
			}
		}

		page, status, err := c.attempt(ctx, endpoint)
		if err == nil {
			if page.Skipped > 0 {
				c.logger.Warn("skipped malformed upstream records",
					zap.String("url", endpoint), zap.Int("skipped", page.Skipped))
			}
			return page, nil
		}

		lastErr = &Error{Kind: KindUnavailable, StatusCode: status, URL: endpoint, Attempts: attempt + 1, Err: err}
		if status != 0 && !retryableStatus(status) {
			lastErr.Kind = KindRejected
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// attempt performs one request. status is the HTTP status of a non-2xx
// response and zero otherwise.
func (c *Client) attempt(ctx context.Context, endpoint string) (*Page, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, resp.StatusCode, errStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}

	page, err := decodePage(body)
	if err != nil {
		return nil, 0, err
	}
	return page, 0, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
