// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/url"
	"strings"

	"github.com/stacklok/skillscout/catalog"
)

const (
	// DefaultLimit is the page size when none, zero, or garbage is given.
	DefaultLimit = 50
	// MaxLimit is the largest accepted page size.
	MaxLimit = 500
)

// params are the parsed query parameters of a skills request. Parsing never
// fails; unknown values fall back to defaults.
type params struct {
	Query    string
	Category catalog.Category
	Format   catalog.Format
	View     catalog.View
	Page     int
	Limit    int
	Filter   string
}

func parseParams(q url.Values) params {
	return params{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: catalog.ParseCategory(q.Get("category")),
		Format:   catalog.ParseFormat(q.Get("format")),
		View:     catalog.ParseView(q.Get("view")),
		Page:     parsePage(q.Get("page")),
		Limit:    parseLimit(q.Get("limit")),
		Filter:   strings.TrimSpace(q.Get("filter")),
	}
}

// parsePage returns a non-negative page number; invalid input is page 0.
func parsePage(s string) int {
	n, ok := leadingInt(s)
	if !ok {
		return 0
	}
	return max(n, 0)
}

// parseLimit clamps to [1, MaxLimit]. Missing, zero, or invalid input is
// DefaultLimit.
func parseLimit(s string) int {
	n, ok := leadingInt(s)
	if !ok || n == 0 {
		return DefaultLimit
	}
	return max(1, min(n, MaxLimit))
}

// leadingInt reads an optionally signed decimal prefix of s, ignoring
// surrounding whitespace and any trailing characters, so "20abc" is 20.
// Values too large to matter saturate.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	const ceiling = 1 << 30
	n, digits := 0, 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			break
		}
		digits++
		if n < ceiling {
			n = n*10 + int(c-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	n = min(n, ceiling)
	if neg {
		n = -n
	}
	return n, true
}

// clampLimit applies the parseLimit rules to an already numeric value.
func clampLimit(n int) int {
	if n == 0 {
		return DefaultLimit
	}
	return max(1, min(n, MaxLimit))
}
