// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/ratelimit"
)

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

// capturingSearcher records the last request and answers with no skills.
type capturingSearcher struct {
	last discovery.Request
}

func (c *capturingSearcher) Search(_ context.Context, req discovery.Request) (*discovery.Result, error) {
	c.last = req
	return &discovery.Result{Skills: []catalog.Skill{}, Source: discovery.SourceUpstream}, nil
}

func TestSearchSkillsToolArguments(t *testing.T) {
	t.Parallel()

	searcher := &capturingSearcher{}
	srv := NewServer(searcher, ratelimit.New())

	ctx := context.WithValue(t.Context(), clientKeyContextKey{}, "192.0.2.10")
	res, err := srv.searchSkillsTool(ctx, callTool(ToolSearchSkills, map[string]any{
		"query":    "  react ",
		"category": "frontend",
		"view":     "hot",
		"page":     float64(-2),
		"limit":    float64(900),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, discovery.Request{
		Query:     "react",
		Category:  catalog.CategoryFrontend,
		View:      catalog.ViewHot,
		Page:      0,
		Limit:     MaxLimit,
		ClientKey: "192.0.2.10",
	}, searcher.last)
}

func TestSearchSkillsToolDefaults(t *testing.T) {
	t.Parallel()

	searcher := &capturingSearcher{}
	srv := NewServer(searcher, ratelimit.New())

	_, err := srv.searchSkillsTool(t.Context(), callTool(ToolSearchSkills, nil))
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryAll, searcher.last.Category)
	assert.Equal(t, catalog.ViewAllTime, searcher.last.View)
	assert.Equal(t, DefaultLimit, searcher.last.Limit)
	assert.Equal(t, ratelimit.UnknownClient, searcher.last.ClientKey)
}

func TestSearchSkillsToolResult(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 10).Return(twoSkills, nil)

	res, err := env.server.searchSkillsTool(t.Context(), callTool(ToolSearchSkills, map[string]any{
		"query":  "acme",
		"limit":  float64(10),
		"filter": `"react-hooks" in tags`,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var body Response
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "react-hooks", body.Data[0].Name)
	assert.Equal(t, "skills.sh", body.Meta.Source)
}

func TestSearchSkillsToolInvalidFilter(t *testing.T) {
	t.Parallel()

	searcher := &capturingSearcher{}
	srv := NewServer(searcher, ratelimit.New())

	res, err := srv.searchSkillsTool(t.Context(), callTool(ToolSearchSkills, map[string]any{
		"query":  "react",
		"filter": "installs >",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid filter")
	assert.Empty(t, searcher.last.Query)
}

func TestSkillStatsTool(t *testing.T) {
	t.Parallel()

	res, err := skillStatsTool(t.Context(), callTool(ToolSkillStats, nil))
	require.NoError(t, err)

	var stats catalog.EcosystemStats
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &stats))
	assert.Equal(t, 200, stats.TotalSkills)
	assert.Equal(t, 1663100, stats.TotalInstalls)
	require.NotEmpty(t, stats.TopSkills)
	assert.Equal(t, "find-skills", stats.TopSkills[0].Name)
}

func TestMCPEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skill_scout")
	assert.Equal(t, "119", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestMCPEndpointRateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, ratelimit.WithLimit(1))
	env.fetcher.EXPECT().FetchSearch(gomock.Any(), "acme", 50).Return(twoSkills, nil)
	require.Equal(t, http.StatusOK, env.get("/api/skills?q=acme").Code)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Rate limit exceeded. Please retry shortly."}`, rec.Body.String())
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
