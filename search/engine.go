// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/stacklok/skillscout/catalog"
)

// Field weights. They sum to one.
const (
	weightName        = 0.35
	weightDescription = 0.25
	weightTags        = 0.20
	weightCategory    = 0.10
	weightOwner       = 0.10
)

// field is one searchable value of a skill with its precomputed norm.
type field struct {
	text   string
	weight float64
	norm   float64
}

type document struct {
	skill  catalog.Skill
	fields []field
}

// Engine searches a fixed set of skills in memory. It never performs I/O
// and is safe for concurrent use.
type Engine struct {
	docs      []document
	threshold float64
	distance  int
}

// Result is a matched skill with its relevance score; lower is better.
type Result struct {
	Skill catalog.Skill
	Score float64
}

// NewEngine indexes skills. The slice is copied.
func NewEngine(skills []catalog.Skill) *Engine {
	e := &Engine{
		docs:      make([]document, 0, len(skills)),
		threshold: DefaultThreshold,
		distance:  DefaultDistance,
	}
	for _, s := range skills {
		s = s.Clone()
		doc := document{skill: s}
		doc.add(s.Name, weightName)
		doc.add(s.Description, weightDescription)
		for _, tag := range s.Tags {
			doc.add(tag, weightTags)
		}
		doc.add(string(s.Category), weightCategory)
		doc.add(s.Owner, weightOwner)
		e.docs = append(e.docs, doc)
	}
	return e
}

func (d *document) add(text string, weight float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.fields = append(d.fields, field{text: text, weight: weight, norm: fieldNorm(text)})
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns an engine over the bundled dataset.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(catalog.Dataset())
	})
	return defaultEngine
}

// Len returns the number of indexed skills.
func (e *Engine) Len() int {
	return len(e.docs)
}

// Search returns skills in category matching query. A blank query lists the
// category by install count; otherwise results are ordered by relevance.
func (e *Engine) Search(query string, category catalog.Category) []catalog.Skill {
	results := e.Rank(query, category)
	out := make([]catalog.Skill, len(results))
	for i, r := range results {
		out[i] = r.Skill
	}
	return out
}

// Rank is Search with scores. Blank queries score every result zero.
func (e *Engine) Rank(query string, category catalog.Category) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return e.byInstalls(category)
	}

	m := newMatcher(query, e.threshold, e.distance)
	results := make([]Result, 0)
	for _, doc := range e.docs {
		if category != catalog.CategoryAll && doc.skill.Category != category {
			continue
		}
		score, ok := doc.score(m)
		if !ok {
			continue
		}
		results = append(results, Result{Skill: doc.skill.Clone(), Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return results
}

// score combines the per-field scores multiplicatively, each raised to its
// weight times its norm, so that many good matches beat one.
func (d *document) score(m *matcher) (float64, bool) {
	total := 1.0
	matched := false
	for _, f := range d.fields {
		s, ok := m.score(f.text)
		if !ok {
			continue
		}
		matched = true
		total *= math.Pow(s, f.weight*f.norm)
	}
	return total, matched
}

func (e *Engine) byInstalls(category catalog.Category) []Result {
	results := make([]Result, 0, len(e.docs))
	for _, doc := range e.docs {
		if category == catalog.CategoryAll || doc.skill.Category == category {
			results = append(results, Result{Skill: doc.skill.Clone()})
		}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Skill.Installs, a.Skill.Installs)
	})
	return results
}
