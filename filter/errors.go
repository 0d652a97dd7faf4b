// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

var (
	// ErrExpressionCheck is returned when a filter fails syntax or type checking.
	ErrExpressionCheck = errors.New("filter expression check failed")

	// ErrEvaluation is returned when evaluating a filter fails.
	ErrEvaluation = errors.New("filter expression evaluation failed")

	// ErrInvalidResult is returned when a filter produces a non-bool value.
	ErrInvalidResult = errors.New("filter expression returned invalid result type")
)

// Issue is one problem found in an expression.
type Issue struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// Details lists the problems found in an expression.
type Details struct {
	Issues []Issue `json:"issues,omitempty"`
	Source string  `json:"source,omitempty"`
}

// Summary returns the first issue as "line:col: msg", or "" if there are none.
func (d *Details) Summary() string {
	if len(d.Issues) == 0 {
		return ""
	}
	i := d.Issues[0]
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Col, i.Msg)
}

func detailsFromIssues(source string, issues *cel.Issues) Details {
	d := Details{
		Source: source,
		Issues: make([]Issue, 0, len(issues.Errors())),
	}
	for _, err := range issues.Errors() {
		d.Issues = append(d.Issues, Issue{
			Line: err.Location.Line(),
			Col:  err.Location.Column(),
			Msg:  err.Message,
		})
	}
	return d
}

// ParseError is a syntax error in a filter expression.
type ParseError struct {
	Details
	original error
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("filter syntax error in %q: %s", pe.Source, pe.original)
}

func (pe *ParseError) Unwrap() error {
	return pe.original
}

// CheckError is a type error in a filter expression, such as an unknown
// variable or comparing installs with a string.
type CheckError struct {
	Details
	original error
}

func (ce *CheckError) Error() string {
	return fmt.Sprintf("filter type error in %q: %s", ce.Source, ce.original)
}

func (ce *CheckError) Unwrap() error {
	return ce.original
}

func newParseError(source string, issues *cel.Issues) error {
	return &ParseError{
		Details:  detailsFromIssues(source, issues),
		original: fmt.Errorf("%w: %w", ErrExpressionCheck, issues.Err()),
	}
}

func newCheckError(source string, issues *cel.Issues) error {
	return &CheckError{
		Details:  detailsFromIssues(source, issues),
		original: fmt.Errorf("%w: %w", ErrExpressionCheck, issues.Err()),
	}
}
