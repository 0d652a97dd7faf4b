// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/skillscout/catalog"
)

// newTestClient returns a client for srv that records backoff delays instead
// of sleeping.
func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()

	base := []Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithCacheTTL(0)}
	c := NewClient(append(base, opts...)...)

	var (
		mu     sync.Mutex
		delays []time.Duration
	)
	c.sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		delays = append(delays, d)
		return nil
	}
	return c, &delays
}

func statusServer(t *testing.T, hits *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSearch_Success(t *testing.T) {
	t.Parallel()

	var (
		mu                           sync.Mutex
		gotPath, gotQuery, gotAccept string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"skills":[{"id":"x","source":"acme/demo","skillId":"foo","name":"Foo","installs":42}]}`))
	}))
	t.Cleanup(srv.Close)

	c, delays := newTestClient(t, srv)
	page, err := c.FetchSearch(t.Context(), "react hooks", 60)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/api/search", gotPath)
	assert.Equal(t, "q=react+hooks&limit=60", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
	assert.Empty(t, *delays)

	require.Len(t, page.Skills, 1)
	assert.Equal(t, catalog.RawSkill{ID: "x", Source: "acme/demo", SkillID: "foo", Name: "Foo", Installs: 42}, page.Skills[0])
	assert.Equal(t, -1, page.Total)
	assert.False(t, page.HasMore)
}

func TestFetchList_Success(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotPath string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		mu.Unlock()
		_, _ = w.Write([]byte(`{"skills":[],"total":1234,"hasMore":true,"page":3}`))
	}))
	t.Cleanup(srv.Close)

	c, _ := newTestClient(t, srv)
	page, err := c.FetchList(t.Context(), catalog.ViewTrending, 3)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, "/api/skills/trending/3", gotPath)
	mu.Unlock()
	assert.Equal(t, 1234, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, 3, page.Page)
	assert.Empty(t, page.Skills)
}

func TestFetch_RetriesServerErrorsTwice(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusServiceUnavailable)
	c, delays := newTestClient(t, srv)

	_, err := c.FetchSearch(t.Context(), "react", 10)
	require.Error(t, err)

	assert.Equal(t, int32(3), hits.Load(), "one attempt plus two retries")
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}, *delays)

	var upErr *Error
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, KindUnavailable, upErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
	assert.Equal(t, 3, upErr.Attempts)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "(503)")
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			srv := statusServer(t, &hits, status)
			c, delays := newTestClient(t, srv)

			_, err := c.FetchList(t.Context(), catalog.ViewAllTime, 0)
			require.Error(t, err)
			assert.Equal(t, int32(1), hits.Load())
			assert.Empty(t, *delays)
			assert.ErrorIs(t, err, ErrRejected)
			assert.NotErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestFetch_RetriesTooManyRequestsThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"skills":[{"source":"a/b","skillId":"c"}]}`))
	}))
	t.Cleanup(srv.Close)

	c, delays := newTestClient(t, srv)
	page, err := c.FetchSearch(t.Context(), "abc", 5)
	require.NoError(t, err)
	assert.Len(t, page.Skills, 1)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, *delays)
}

func TestFetch_RetriesTimeouts(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c, _ := newTestClient(t, srv, WithTimeout(20*time.Millisecond))
	_, err := c.FetchSearch(t.Context(), "slow", 5)
	require.Error(t, err)

	assert.Equal(t, int32(3), hits.Load())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetch_RetriesMalformedPayload(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	t.Cleanup(srv.Close)

	c, _ := newTestClient(t, srv)
	_, err := c.FetchSearch(t.Context(), "abc", 5)
	require.Error(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.ErrorIs(t, err, errMalformedPayload)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetch_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	c, delays := newTestClient(t, srv)
	srv.Close()

	_, err := c.FetchSearch(t.Context(), "abc", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, *delays, 2)

	var upErr *Error
	require.ErrorAs(t, err, &upErr)
	assert.Zero(t, upErr.StatusCode)
}

func TestFetch_CachesSuccessfulResponses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"skills":[{"source":"a/b","skillId":"c","installs":1}]}`))
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	c, _ := newTestClient(t, srv, WithCacheTTL(DefaultCacheTTL), withClock(clock))

	first, err := c.FetchSearch(t.Context(), "abc", 5)
	require.NoError(t, err)
	first.Skills[0].Name = "mutated"

	second, err := c.FetchSearch(t.Context(), "abc", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, second.Skills[0].Name, "cached pages must not share state with callers")

	_, err = c.FetchSearch(t.Context(), "other", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "different URLs are cached separately")

	mu.Lock()
	now = now.Add(DefaultCacheTTL)
	mu.Unlock()

	_, err = c.FetchSearch(t.Context(), "abc", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "expired entries are refetched")

	c.Purge()
	_, err = c.FetchSearch(t.Context(), "abc", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load())
}

func TestFetch_FailuresAreNotCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusNotFound)
	c, _ := newTestClient(t, srv, WithCacheTTL(DefaultCacheTTL))

	_, err := c.FetchSearch(t.Context(), "abc", 5)
	require.Error(t, err)
	_, err = c.FetchSearch(t.Context(), "abc", 5)
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetch_CallerCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"skills":[]}`))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, _ := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := c.FetchSearch(ctx, "abc", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	require.NoError(t, sleepContext(t.Context(), time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
