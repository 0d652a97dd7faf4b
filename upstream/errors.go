// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying upstream failures with errors.Is.
var (
	// ErrUnavailable covers timeouts, network failures, undecodable payloads
	// and 429/5xx responses that persisted through every retry.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrRejected covers non-retryable 4xx responses other than 429.
	ErrRejected = errors.New("upstream rejected request")
)

// Kind classifies an upstream failure.
type Kind int

const (
	// KindUnavailable marks transient or infrastructure failures.
	KindUnavailable Kind = iota
	// KindRejected marks requests the catalog refused outright.
	KindRejected
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Error describes a failed catalog request after retries were exhausted.
type Error struct {
	Kind Kind
	// StatusCode is the last HTTP status received, or 0 if no response
	// arrived.
	StatusCode int
	URL        string
	Attempts   int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream request failed (%d) after %d attempt(s): %s", e.StatusCode, e.Attempts, e.URL)
	}
	return fmt.Sprintf("upstream request failed after %d attempt(s): %s: %v", e.Attempts, e.URL, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	sentinel := ErrUnavailable
	if e.Kind == KindRejected {
		sentinel = ErrRejected
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// errStatus is the cause recorded for a non-2xx response.
type errStatus int

func (s errStatus) Error() string {
	return fmt.Sprintf("unexpected status %d", int(s))
}

// retryableStatus reports whether a response status warrants another attempt.
func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
