// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/httperr"
	"github.com/stacklok/skillscout/ratelimit"
	"github.com/stacklok/skillscout/upstream"
	"github.com/stacklok/skillscout/upstream/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var start = time.Date(2026, 10, 17, 10, 0, 0, 500_000_000, time.UTC)

type testEnv struct {
	handler http.Handler
	fetcher *mocks.MockFetcher
	clock   *fakeClock
	server  *Server
}

func newTestEnv(t *testing.T, limiterOpts ...ratelimit.Option) *testEnv {
	t.Helper()

	clock := &fakeClock{now: start}
	fetcher := mocks.NewMockFetcher(gomock.NewController(t))
	svc := discovery.NewService(fetcher, discovery.WithClock(clock.Now))
	limiter := ratelimit.New(append([]ratelimit.Option{ratelimit.WithClock(clock.Now)}, limiterOpts...)...)
	srv := NewServer(svc, limiter, WithClock(clock.Now))

	return &testEnv{handler: srv.Handler(), fetcher: fetcher, clock: clock, server: srv}
}

func (e *testEnv) get(target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func raw(skillID, source string, installs int) catalog.RawSkill {
	return catalog.RawSkill{Source: source, SkillID: skillID, Name: skillID, Installs: installs}
}

var twoSkills = &upstream.Page{
	Skills: []catalog.RawSkill{raw("react-hooks", "acme/ui", 1200), raw("docker-deploy", "acme/ops", 800)},
	Total:  -1,
}

func TestSkillsJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 20).Return(twoSkills, nil)

	rec := env.get("/api/skills?q=acme&limit=20")
	require.Equal(t, http.StatusOK, rec.Code)

	h := rec.Header()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "120", h.Get("X-RateLimit-Limit"))
	assert.Equal(t, "119", h.Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(start.Add(time.Minute).Unix()+1, 10), h.Get("X-RateLimit-Reset"))
	assert.Equal(t, "skills.sh", h.Get("X-Data-Source"))
	assert.Equal(t, "public, max-age=120, s-maxage=300", h.Get("Cache-Control"))
	assert.Equal(t, "application/json; charset=utf-8", h.Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "acme/ui/react-hooks", body.Data[0].ID)
	assert.Equal(t, "npx skills add acme/ui --skill react-hooks", body.Data[0].InstallCommand)
	assert.Equal(t, Meta{
		Total:    2,
		Query:    "acme",
		Category: "all",
		Format:   "json",
		View:     "all-time",
		Page:     0,
		HasMore:  false,
		Source:   "skills.sh",
	}, body.Meta)

	var rawBody map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rawBody))
	var rawMeta map[string]any
	require.NoError(t, json.Unmarshal(rawBody["meta"], &rawMeta))
	assert.Contains(t, rawMeta, "hasMore")
	assert.NotContains(t, rawMeta, "sourceTotal")
}

func TestSkillsText(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 50).Return(twoSkills, nil)

	rec := env.get("/api/skills?q=acme&format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "skills.sh", rec.Header().Get("X-Data-Source"))

	want := "# Skill Scout Results\n" +
		"# Query: \"acme\" | Category: all | 2 results\n" +
		"# Source: skills.sh\n\n" +
		"react-hooks (acme/ui) - 1,200 installs\n" +
		"  react-hooks skill from acme/ui.\n" +
		"  Install: npx skills add acme/ui --skill react-hooks\n\n" +
		"docker-deploy (acme/ops) - 800 installs\n" +
		"  docker-deploy skill from acme/ops.\n" +
		"  Install: npx skills add acme/ops --skill docker-deploy"
	assert.Equal(t, want, rec.Body.String())
}

func TestSkillsTextEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "zz", 50).Return(&upstream.Page{Total: -1}, nil)

	rec := env.get("/api/skills?q=zz&format=text")
	assert.Equal(t, "# Skill Scout Results\n# Query: \"zz\" | Category: all | 0 results\n# Source: skills.sh\n\n", rec.Body.String())
}

func TestSkillsBrowse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchList(gomock.Any(), catalog.ViewTrending, 2).Return(&upstream.Page{
		Skills: twoSkills.Skills, Total: 4321, HasMore: true, Page: 2,
	}, nil)

	rec := env.get("/api/skills?view=trending&page=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Meta.HasMore)
	assert.Equal(t, "trending", body.Meta.View)
	assert.Equal(t, 2, body.Meta.Page)
	require.NotNil(t, body.Meta.SourceTotal)
	assert.Equal(t, 4321, *body.Meta.SourceTotal)
}

func TestSkillsFallback(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "testing", 300).Return(nil, &upstream.Error{
		Kind: upstream.KindUnavailable, StatusCode: http.StatusBadGateway, Attempts: 3,
	})

	rec := env.get("/api/skills?q=testing&category=testing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "local-fallback", rec.Header().Get("X-Data-Source"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "local-fallback", body.Meta.Source)
	assert.False(t, body.Meta.HasMore)
	require.NotNil(t, body.Meta.SourceTotal)
	assert.Equal(t, 200, *body.Meta.SourceTotal)
	assert.NotEmpty(t, body.Data)
	for _, s := range body.Data {
		assert.Equal(t, catalog.CategoryTesting, s.Category)
	}
}

func TestSkillsRateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, ratelimit.WithLimit(2))
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 50).Return(twoSkills, nil).Times(2)

	for range 2 {
		rec := env.get("/api/skills?q=acme", "X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	env.clock.Advance(20 * time.Second)
	rec := env.get("/api/skills?q=acme", "X-Forwarded-For", "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	h := rec.Header()
	assert.Equal(t, "no-store", h.Get("Cache-Control"))
	assert.Equal(t, "40", h.Get("Retry-After"))
	assert.Equal(t, "0", h.Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", h.Get("X-RateLimit-Limit"))
	assert.Empty(t, h.Get("X-Data-Source"))
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"success":false,"error":"Rate limit exceeded. Please retry shortly."}`, rec.Body.String())

	text := env.get("/api/skills?q=acme&format=text", "X-Forwarded-For", "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, text.Code)
	assert.Equal(t, "Rate limit exceeded. Please retry shortly.", text.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", text.Header().Get("Content-Type"))

	// Other clients are unaffected.
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 50).Return(twoSkills, nil)
	other := env.get("/api/skills?q=acme", "X-Real-IP", "198.51.100.1")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestSkillsInvalidFilter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.get("/api/skills?q=acme&filter=" + "stars%20%3E%205")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httperr.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "invalid filter")
	assert.Empty(t, rec.Header().Get("X-Data-Source"))
}

func TestSkillsFilter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 50).Return(twoSkills, nil)

	rec := env.get("/api/skills?q=acme&filter=installs%20%3C%201000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "docker-deploy", body.Data[0].Name)
}

func TestPreflight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/skills", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	assert.Empty(t, rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := newTestEnv(t).get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestManifest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, ratelimit.WithLimit(30), ratelimit.WithWindow(2*time.Minute))
	rec := env.get("/.well-known/skills.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300, s-maxage=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var m Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "skill_scout", m.Name)
	assert.Equal(t, Protocol, m.Protocol)
	assert.Equal(t, "/api/skills", m.Endpoints.Search)
	assert.Equal(t, 30, m.RateLimit.Limit)
	assert.Equal(t, 120, m.RateLimit.WindowSeconds)
	assert.Len(t, m.Response.Categories, 11)
	assert.NotContains(t, m.Response.Categories, catalog.CategoryAll)
	assert.Equal(t, []catalog.View{catalog.ViewAllTime, catalog.ViewTrending, catalog.ViewHot}, m.Response.Views)
	assert.Equal(t, 300, m.Cache.PublicSeconds)

	// The manifest does not consume rate limit budget.
	assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.get("/healthz", RequestIDHeader, "trace-abc-123")
	assert.Equal(t, "trace-abc-123", rec.Header().Get(RequestIDHeader))

	generated := env.get("/healthz").Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

type panickingSearcher struct{}

func (panickingSearcher) Search(context.Context, discovery.Request) (*discovery.Result, error) {
	panic("boom")
}

func TestPanicRecovered(t *testing.T) {
	t.Parallel()

	srv := NewServer(panickingSearcher{}, ratelimit.New())
	req := httptest.NewRequest(http.MethodGet, "/api/skills?q=react", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error"}`, rec.Body.String())
}
