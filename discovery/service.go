// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stacklok/skillscout/alert"
	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/filter"
	"github.com/stacklok/skillscout/search"
	"github.com/stacklok/skillscout/upstream"
)

// Source names where a result came from.
type Source string

const (
	// SourceUpstream marks results served by the live catalog.
	SourceUpstream Source = "skills.sh"
	// SourceFallback marks results served by the bundled dataset.
	SourceFallback Source = "local-fallback"
)

const (
	// MinQueryLength is the shortest query answered by a live search.
	// Shorter queries browse the leaderboard instead.
	MinQueryLength = 2

	// MaxBrowsePages caps the pages read for one browse when a category
	// filter is active. Without a filter a single page is read.
	MaxBrowsePages = 20

	// minFilteredSearchLimit and maxFilteredSearchLimit bound the number of
	// records requested for a category-filtered search.
	minFilteredSearchLimit = 200
	maxFilteredSearchLimit = 1000

	// filteredSearchFactor over-fetches filtered searches so that enough
	// records remain after the category filter.
	filteredSearchFactor = 6
)

// Request is one query. Callers are expected to have parsed and clamped
// every field.
type Request struct {
	Query    string
	Category catalog.Category
	View     catalog.View
	Page     int
	Limit    int
	// Filter is applied after the category filter. Nil keeps everything.
	Filter *filter.Filter
	// ClientKey identifies the caller in fallback alerts.
	ClientKey string
}

// Result is the answer to a Request.
type Result struct {
	Skills  []catalog.Skill
	Source  Source
	HasMore bool
	// SourceTotal is the catalog size reported by the source, or nil when
	// the source did not report one.
	SourceTotal *int
}

// Alerter receives fallback activations.
type Alerter interface {
	EmitAsync(ctx context.Context, d alert.Details)
}

// Service orchestrates queries. It is safe for concurrent use.
type Service struct {
	fetcher upstream.Fetcher
	engine  *search.Engine
	alerter Alerter
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEngine sets the fallback engine. Defaults to search.Default().
func WithEngine(e *search.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithAlerter sets where fallback activations are reported.
func WithAlerter(a Alerter) Option {
	return func(s *Service) {
		if a != nil {
			s.alerter = a
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp normalized skills.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type nopAlerter struct{}

func (nopAlerter) EmitAsync(context.Context, alert.Details) {}

// NewService creates a Service reading from fetcher.
func NewService(fetcher upstream.Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		alerter: nopAlerter{},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = search.Default()
	}
	return s
}

// IsSearch reports whether query is answered by a live search rather than
// a leaderboard browse.
func IsSearch(query string) bool {
	return utf8.RuneCountInString(query) >= MinQueryLength
}

// SearchLimit returns how many records a live search asks the catalog for.
func SearchLimit(limit int, category catalog.Category) int {
	if category == catalog.CategoryAll {
		return limit
	}
	return min(max(limit*filteredSearchFactor, minFilteredSearchLimit), maxFilteredSearchLimit)
}

// Search answers req. Upstream failures are absorbed by the fallback; the
// returned error is non-nil only when ctx is done or req.Filter fails to
// evaluate.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	var (
		res *Result
		err error
	)
	if IsSearch(req.Query) {
		res, err = s.searchUpstream(ctx, req)
	} else {
		res, err = s.browseUpstream(ctx, req)
	}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("search aborted: %w", ctxErr)
	}
	if isFilterError(err) {
		return nil, err
	}

	s.logger.Warn("serving skills from bundled dataset",
		zap.String("query", req.Query),
		zap.String("category", string(req.Category)),
		zap.Error(err))
	s.alerter.EmitAsync(ctx, alert.Details{
		IP:       req.ClientKey,
		Query:    req.Query,
		Category: string(req.Category),
		View:     string(req.View),
		Page:     req.Page,
		Reason:   err.Error(),
	})
	return s.fallback(req)
}

func (s *Service) searchUpstream(ctx context.Context, req Request) (*Result, error) {
	upstreamLimit := SearchLimit(req.Limit, req.Category)
	page, err := s.fetcher.FetchSearch(ctx, req.Query, upstreamLimit)
	if err != nil {
		return nil, err
	}

	skills, err := s.refine(catalog.NormalizeAll(page.Skills, s.now()), req)
	if err != nil {
		return nil, err
	}
	return &Result{
		Skills:  truncate(skills, req.Limit),
		Source:  SourceUpstream,
		HasMore: len(page.Skills)+page.Skipped >= upstreamLimit,
	}, nil
}

func (s *Service) browseUpstream(ctx context.Context, req Request) (*Result, error) {
	maxPages := 1
	if req.Category != catalog.CategoryAll {
		maxPages = MaxBrowsePages
	}

	var (
		skills      []catalog.Skill
		sourceTotal *int
		hasMore     = true
	)
	for fetched := 0; hasMore && fetched < maxPages && len(skills) < req.Limit; fetched++ {
		page, err := s.fetcher.FetchList(ctx, req.View, req.Page+fetched)
		if err != nil {
			return nil, err
		}
		if sourceTotal == nil && page.Total >= 0 {
			total := page.Total
			sourceTotal = &total
		}
		hasMore = page.HasMore

		refined, err := s.refine(catalog.NormalizeAll(page.Skills, s.now()), req)
		if err != nil {
			return nil, err
		}
		skills = append(skills, refined...)
	}

	return &Result{
		Skills:      truncate(skills, req.Limit),
		Source:      SourceUpstream,
		HasMore:     hasMore,
		SourceTotal: sourceTotal,
	}, nil
}

// Offline answers req from the bundled dataset without contacting the
// upstream.
func (s *Service) Offline(req Request) (*Result, error) {
	return s.fallback(req)
}

// fallback answers from the bundled dataset. SourceTotal is the dataset
// size regardless of the category.
func (s *Service) fallback(req Request) (*Result, error) {
	skills, err := s.refine(s.engine.Search(req.Query, req.Category), req)
	if err != nil {
		return nil, err
	}
	total := s.engine.Len()
	return &Result{
		Skills:      truncate(skills, req.Limit),
		Source:      SourceFallback,
		HasMore:     false,
		SourceTotal: &total,
	}, nil
}

// refine applies the category filter and then the request filter.
func (s *Service) refine(skills []catalog.Skill, req Request) ([]catalog.Skill, error) {
	skills = catalog.FilterByCategory(skills, req.Category)
	if req.Filter == nil {
		return skills, nil
	}
	out, err := req.Filter.Apply(skills)
	if err != nil {
		return nil, &filterError{err: err}
	}
	return out, nil
}

func truncate(skills []catalog.Skill, limit int) []catalog.Skill {
	if skills == nil {
		return []catalog.Skill{}
	}
	if limit >= 0 && len(skills) > limit {
		return skills[:limit]
	}
	return skills
}
