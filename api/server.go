// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/filter"
	"github.com/stacklok/skillscout/ratelimit"
	"github.com/stacklok/skillscout/recovery"
)

// Searcher answers skill queries.
type Searcher interface {
	Search(ctx context.Context, req discovery.Request) (*discovery.Result, error)
}

// Server holds the dependencies shared by all endpoints.
type Server struct {
	searcher Searcher
	limiter  *ratelimit.Limiter
	filters  *filter.Engine
	logger   *zap.Logger
	now      func() time.Time
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFilterEngine sets the engine compiling filter expressions.
func WithFilterEngine(e *filter.Engine) Option {
	return func(s *Server) {
		if e != nil {
			s.filters = e
		}
	}
}

// WithClock sets the clock used for rate limit headers. It should match the
// limiter's clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// NewServer creates a Server.
func NewServer(searcher Searcher, limiter *ratelimit.Limiter, opts ...Option) *Server {
	s := &Server{
		searcher: searcher,
		limiter:  limiter,
		filters:  filter.Default(),
		logger:   zap.NewNop(),
		now:      time.Now,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/skills", s.handleSkills)
	mux.HandleFunc("GET /.well-known/skills.json", s.handleManifest)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("/mcp", s.rateLimited(s.mcpHandler()))

	var h http.Handler = mux
	h = cors(h)
	h = recovery.Middleware(s.logger)(h)
	h = requestLogger(s.logger)(h)
	h = requestID(h)
	return h
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok"))
}
