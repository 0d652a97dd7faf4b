// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/httperr"
	"github.com/stacklok/skillscout/ratelimit"
)

const (
	// successCacheControl is sent with every successful skills response.
	successCacheControl = "public, max-age=120, s-maxage=300"

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Meta describes how a skills response was produced.
type Meta struct {
	Total       int    `json:"total"`
	Query       string `json:"query"`
	Category    string `json:"category"`
	Format      string `json:"format"`
	View        string `json:"view"`
	Page        int    `json:"page"`
	HasMore     bool   `json:"hasMore"`
	SourceTotal *int   `json:"sourceTotal,omitempty"`
	Source      string `json:"source"`
}

// Response is the JSON body of a successful skills request.
type Response struct {
	Success bool            `json:"success"`
	Data    []catalog.Skill `json:"data"`
	Meta    Meta            `json:"meta"`
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r.URL.Query())
	clientKey := ratelimit.ClientKey(r)

	snap := s.limiter.Consume(clientKey)
	s.writeRateHeaders(w, snap)
	if !snap.Allowed {
		s.writeRateLimited(w, snap, p.Format)
		return
	}

	req := discovery.Request{
		Query:     p.Query,
		Category:  p.Category,
		View:      p.View,
		Page:      p.Page,
		Limit:     p.Limit,
		ClientKey: clientKey,
	}
	if p.Filter != "" {
		f, err := s.filters.Compile(p.Filter)
		if err != nil {
			writeError(w, httperr.WithCode(fmt.Errorf("invalid filter: %w", err), http.StatusBadRequest), p.Format)
			return
		}
		req.Filter = f
	}

	res, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			s.logger.Debug("client went away before the search finished", zap.Error(err))
			return
		}
		writeError(w, err, p.Format)
		return
	}

	w.Header().Set("X-Data-Source", string(res.Source))
	w.Header().Set("Cache-Control", successCacheControl)

	if p.Format == catalog.FormatText {
		w.Header().Set("Content-Type", contentTypeText)
		_, _ = w.Write([]byte(RenderText(p.Query, p.Category, res)))
		return
	}

	writeJSON(w, http.StatusOK, newResponse(p, res))
}

func newResponse(p params, res *discovery.Result) Response {
	return Response{
		Success: true,
		Data:    res.Skills,
		Meta: Meta{
			Total:       len(res.Skills),
			Query:       p.Query,
			Category:    string(p.Category),
			Format:      string(catalog.FormatJSON),
			View:        string(p.View),
			Page:        p.Page,
			HasMore:     res.HasMore,
			SourceTotal: res.SourceTotal,
			Source:      string(res.Source),
		},
	}
}

// writeRateHeaders reports the limiter state for the current client.
func (s *Server) writeRateHeaders(w http.ResponseWriter, snap ratelimit.Snapshot) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(s.limiter.Limit()))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(snap.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetSeconds(snap), 10))
}

// resetSeconds is the reset time in unix seconds, rounded up.
func resetSeconds(snap ratelimit.Snapshot) int64 {
	return int64(math.Ceil(float64(snap.ResetAt.UnixMilli()) / 1000))
}

func (s *Server) writeRateLimited(w http.ResponseWriter, snap ratelimit.Snapshot, format catalog.Format) {
	retryAfter := snap.RetryAfter(s.now())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	writeError(w, httperr.WithCode(snap.Err(), http.StatusTooManyRequests), format)
}

// writeError renders err in the requested format. Rate limit rejections
// carry the fixed client message.
func writeError(w http.ResponseWriter, err error, format catalog.Format) {
	if httperr.Code(err) == http.StatusTooManyRequests {
		err = httperr.New(ratelimit.Message, http.StatusTooManyRequests)
	}
	if format == catalog.FormatText {
		httperr.WriteText(w, err)
		return
	}
	httperr.WriteJSON(w, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RenderText renders a result for terminals and agents that prefer plain
// text.
func RenderText(query string, category catalog.Category, res *discovery.Result) string {
	numbers := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("# Skill Scout Results\n")
	fmt.Fprintf(&b, "# Query: \"%s\" | Category: %s | %d results\n", query, category, len(res.Skills))
	fmt.Fprintf(&b, "# Source: %s\n\n", res.Source)

	for i, skill := range res.Skills {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s (%s) - %s installs\n", skill.Name, skill.Source, numbers.Sprintf("%d", skill.Installs))
		fmt.Fprintf(&b, "  %s\n", skill.Description)
		fmt.Fprintf(&b, "  Install: %s", skill.InstallCommand)
	}
	return b.String()
}
