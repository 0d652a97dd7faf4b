// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CodedError wraps an error with the HTTP status code it should be
// rendered with.
type CodedError struct {
	err  error
	code int
}

func (e *CodedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error.
func (e *CodedError) Unwrap() error {
	return e.err
}

// HTTPCode returns the status code err is rendered with.
func (e *CodedError) HTTPCode() int {
	return e.code
}

// WithCode attaches an HTTP status code to err. A nil err stays nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{err: err, code: code}
}

// Code returns the status code of the outermost CodedError in err's chain:
// 200 for nil, 500 when the chain carries no code.
func Code(err error) int {
	var coded *CodedError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &coded):
		return coded.code
	default:
		return http.StatusInternalServerError
	}
}

// New returns an error with message rendered as code.
func New(message string, code int) error {
	return &CodedError{err: errors.New(message), code: code}
}

// Envelope is the body of every JSON error response.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Message returns the text shown to clients for err. Server errors are
// reduced to their status text so internal details never leak.
func Message(err error) string {
	code := Code(err)
	if code >= http.StatusInternalServerError {
		return http.StatusText(code)
	}
	return err.Error()
}

// WriteJSON renders err as an error envelope with its status code.
func WriteJSON(w http.ResponseWriter, err error) {
	code := Code(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: Message(err)})
}

// WriteText renders err as a plain text message with its status code.
func WriteText(w http.ResponseWriter, err error) {
	code := Code(err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(Message(err)))
}
