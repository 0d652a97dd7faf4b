// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"math"
	"strings"
)

const (
	// DefaultThreshold is the worst score still considered a match. A score
	// is the fraction of mistyped pattern characters plus a penalty for
	// matching far from the start of the text.
	DefaultThreshold = 0.4

	// DefaultDistance is how many characters away from the start a match may
	// drift before its location penalty alone reaches 1.
	DefaultDistance = 100

	// MinMatchLength is the shortest pattern that can match.
	MinMatchLength = 2

	// perfectScore is the score of an exact match at the start of the text.
	// It is kept above zero so that weighting still ranks fields.
	perfectScore = 0.001
)

// matcher scores approximate occurrences of one pattern.
type matcher struct {
	pattern   []rune
	threshold float64
	distance  float64
	maxErrors int
}

func newMatcher(pattern string, threshold float64, distance int) *matcher {
	p := []rune(strings.ToLower(pattern))
	return &matcher{
		pattern:   p,
		threshold: threshold,
		distance:  float64(distance),
		maxErrors: int(math.Floor(threshold * float64(len(p)))),
	}
}

// score returns the best score of the pattern anywhere in text and whether
// it is within the threshold. Lower is better.
func (m *matcher) score(text string) (float64, bool) {
	n := len(m.pattern)
	if n < MinMatchLength {
		return 1, false
	}
	t := []rune(strings.ToLower(text))

	best := math.Inf(1)
	lastStart := min(len(t)-1, int(m.threshold*m.distance))
	for start := 0; start <= lastStart; start++ {
		proximity := float64(start) / m.distance
		budget := m.maxErrors
		if proximity > 0 {
			budget = int(math.Floor((m.threshold - proximity) * float64(n)))
		}
		if budget < 0 {
			break
		}
		errs := m.editsAt(t[start:], budget)
		if errs < 0 || n-errs < MinMatchLength {
			continue
		}
		s := float64(errs)/float64(n) + proximity
		if s < best {
			best = s
			if errs == 0 && start == 0 {
				break
			}
		}
	}

	if best > m.threshold {
		return 1, false
	}
	return max(best, perfectScore), true
}

// editsAt returns the fewest edits turning the pattern into some prefix of
// text, or -1 if every alignment needs more than budget edits.
func (m *matcher) editsAt(text []rune, budget int) int {
	n := len(m.pattern)
	width := min(len(text), n+budget)

	prev := make([]int, width+1)
	cur := make([]int, width+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= width; j++ {
			cost := 1
			if m.pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, prev[j]+1, cur[j-1]+1)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > budget {
			return -1
		}
		prev, cur = cur, prev
	}

	best := prev[0]
	for _, v := range prev[1:] {
		best = min(best, v)
	}
	if best > budget {
		return -1
	}
	return best
}

// fieldNorm dampens matches in long fields: 1/sqrt(number of words),
// rounded to three decimals.
func fieldNorm(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	return math.Round(1/math.Sqrt(float64(words))*1000) / 1000
}
