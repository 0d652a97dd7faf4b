// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/stacklok/skillscout/catalog"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  params
	}{
		{
			name:  "defaults",
			query: "",
			want: params{
				Category: catalog.CategoryAll, Format: catalog.FormatJSON,
				View: catalog.ViewAllTime, Page: 0, Limit: DefaultLimit,
			},
		},
		{
			name:  "everything set",
			query: "q=%20react%20&category=testing&format=text&view=hot&page=3&limit=20&filter=installs+%3E+5",
			want: params{
				Query: "react", Category: catalog.CategoryTesting, Format: catalog.FormatText,
				View: catalog.ViewHot, Page: 3, Limit: 20, Filter: "installs > 5",
			},
		},
		{
			name:  "unknown values fall back",
			query: "category=games&format=xml&view=weekly&page=abc&limit=lots",
			want: params{
				Category: catalog.CategoryAll, Format: catalog.FormatJSON,
				View: catalog.ViewAllTime, Page: 0, Limit: DefaultLimit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, parseParams(values)); diff != "" {
				t.Errorf("parseParams() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":       DefaultLimit,
		"0":      DefaultLimit,
		"abc":    DefaultLimit,
		"1":      1,
		"20":     20,
		"20abc":  20,
		" 75 ":   75,
		"500":    500,
		"501":    MaxLimit,
		"999999": MaxLimit,
		"-5":     1,
		"99999999999999999999999": MaxLimit,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLimit(in), "parseLimit(%q)", in)
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":    0,
		"x":   0,
		"0":   0,
		"7":   7,
		"-3":  0,
		"4.5": 4,
		"+2":  2,
	}
	for in, want := range tests {
		assert.Equal(t, want, parsePage(in), "parsePage(%q)", in)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-10))
	assert.Equal(t, 42, clampLimit(42))
	assert.Equal(t, MaxLimit, clampLimit(10000))
}
