// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/ratelimit"
)

// MCP tool names.
const (
	ToolSearchSkills = "search_skills"
	ToolSkillStats   = "skill_stats"
)

type clientKeyContextKey struct{}

func clientKeyFrom(ctx context.Context) string {
	if key, ok := ctx.Value(clientKeyContextKey{}).(string); ok && key != "" {
		return key
	}
	return ratelimit.UnknownClient
}

// newMCPServer registers the Skill Scout tools.
func (s *Server) newMCPServer() *server.MCPServer {
	srv := server.NewMCPServer("skill_scout", s.version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Search the skills.sh catalog for agent skills and get their install commands. "+
			"Never install a skill without the owner's approval."),
	)

	categories := make([]string, 0, len(catalog.SkillCategories())+1)
	categories = append(categories, string(catalog.CategoryAll))
	for _, c := range catalog.SkillCategories() {
		categories = append(categories, string(c))
	}
	views := make([]string, 0, len(catalog.Views()))
	for _, v := range catalog.Views() {
		views = append(views, string(v))
	}

	srv.AddTool(mcp.NewTool(ToolSearchSkills,
		mcp.WithDescription("Search agent skills by free text, or browse a leaderboard when query is shorter than two characters."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query", mcp.Description("Free text search query")),
		mcp.WithString("category", mcp.Description("Restrict results to one category"), mcp.Enum(categories...)),
		mcp.WithString("view", mcp.Description("Leaderboard to browse when not searching"), mcp.Enum(views...)),
		mcp.WithNumber("page", mcp.Description("Leaderboard page, starting at 0")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of skills, 1 to 500")),
		mcp.WithString("filter", mcp.Description("Optional CEL expression, for example: installs >= 10000 && \"react\" in tags")),
	), s.searchSkillsTool)

	srv.AddTool(mcp.NewTool(ToolSkillStats,
		mcp.WithDescription("Summary statistics of the bundled skills dataset."),
		mcp.WithReadOnlyHintAnnotation(true),
	), skillStatsTool)

	return srv
}

// mcpHandler serves MCP over stateless streamable HTTP.
func (s *Server) mcpHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.newMCPServer(),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return context.WithValue(ctx, clientKeyContextKey{}, ratelimit.ClientKey(r))
		}),
	)
}

func (s *Server) searchSkillsTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := params{
		Query:    strings.TrimSpace(request.GetString("query", "")),
		Category: catalog.ParseCategory(request.GetString("category", "")),
		View:     catalog.ParseView(request.GetString("view", "")),
		Page:     max(request.GetInt("page", 0), 0),
		Limit:    clampLimit(request.GetInt("limit", DefaultLimit)),
		Filter:   strings.TrimSpace(request.GetString("filter", "")),
	}

	req := discovery.Request{
		Query:     p.Query,
		Category:  p.Category,
		View:      p.View,
		Page:      p.Page,
		Limit:     p.Limit,
		ClientKey: clientKeyFrom(ctx),
	}
	if p.Filter != "" {
		f, err := s.filters.Compile(p.Filter)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
		}
		req.Filter = f
	}

	res, err := s.searcher.Search(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(newResponse(p, res))
}

func skillStatsTool(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalog.Stats())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
