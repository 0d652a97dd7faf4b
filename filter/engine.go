// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/stacklok/skillscout/catalog"
)

const (
	// DefaultMaxExpressionLength is the maximum allowed length for a filter
	// expression. Filters arrive in query strings, so this is far below what
	// CEL itself tolerates.
	DefaultMaxExpressionLength = 1024

	// DefaultCostLimit is the runtime cost limit for evaluating a filter
	// against a single skill.
	DefaultCostLimit = 100000
)

// Engine compiles filter expressions. It is safe for concurrent use from
// multiple goroutines.
type Engine struct {
	once                sync.Once
	env                 *cel.Env
	envErr              error
	maxExpressionLength int
	costLimit           uint64
}

// NewEngine creates an engine with the default limits.
func NewEngine() *Engine {
	return &Engine{
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
	}
}

// WithMaxExpressionLength sets the maximum allowed expression length.
func (e *Engine) WithMaxExpressionLength(maxLen int) *Engine {
	e.maxExpressionLength = maxLen
	return e
}

// WithCostLimit sets the runtime cost limit per evaluation.
func (e *Engine) WithCostLimit(limit uint64) *Engine {
	e.costLimit = limit
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns a shared engine with the default limits.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

func (e *Engine) getEnv() (*cel.Env, error) {
	e.once.Do(func() {
		e.env, e.envErr = cel.NewEnv(
			cel.Variable("id", cel.StringType),
			cel.Variable("name", cel.StringType),
			cel.Variable("description", cel.StringType),
			cel.Variable("tags", cel.ListType(cel.StringType)),
			cel.Variable("category", cel.StringType),
			cel.Variable("badge", cel.StringType),
			cel.Variable("owner", cel.StringType),
			cel.Variable("source", cel.StringType),
			cel.Variable("installs", cel.IntType),
		)
	})
	return e.env, e.envErr
}

// Filter is a compiled expression ready for evaluation.
type Filter struct {
	source  string
	program cel.Program
}

// Source returns the original expression.
func (f *Filter) Source() string {
	return f.source
}

// Compile parses and type checks expr. The result must be a bool.
//
// Returns an error wrapping ErrExpressionCheck if the expression is too long,
// a *ParseError for syntax errors, or a *CheckError for type errors.
func (e *Engine) Compile(expr string) (*Filter, error) {
	if len(expr) > e.maxExpressionLength {
		return nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(expr), e.maxExpressionLength)
	}

	env, err := e.getEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to get CEL environment: %w", err)
	}

	parsed, issues := env.Parse(expr)
	if issues.Err() != nil {
		return nil, newParseError(expr, issues)
	}

	checked, issues := env.Check(parsed)
	if issues.Err() != nil {
		return nil, newCheckError(expr, issues)
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression %q evaluates to %s, want bool",
			ErrExpressionCheck, expr, checked.OutputType())
	}

	program, err := env.Program(checked, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
	}

	return &Filter{source: expr, program: program}, nil
}

// Match reports whether s satisfies the filter.
func (f *Filter) Match(s catalog.Skill) (bool, error) {
	out, _, err := f.program.Eval(activation(s))
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, out.Value())
	}
	return matched, nil
}

// Apply returns the skills matching the filter, preserving order. A nil
// filter keeps every skill.
func (f *Filter) Apply(skills []catalog.Skill) ([]catalog.Skill, error) {
	if f == nil {
		return skills, nil
	}
	out := make([]catalog.Skill, 0, len(skills))
	for _, s := range skills {
		ok, err := f.Match(s)
		if err != nil {
			return nil, fmt.Errorf("skill %s: %w", s.ID, err)
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func activation(s catalog.Skill) map[string]any {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":          s.ID,
		"name":        s.Name,
		"description": s.Description,
		"tags":        tags,
		"category":    string(s.Category),
		"badge":       string(s.Badge),
		"owner":       s.Owner,
		"source":      s.Source,
		"installs":    int64(s.Installs),
	}
}
