// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/stacklok/skillscout/httperr"
)

// Middleware returns HTTP middleware that recovers from panics, logs the
// panic value with its stack trace, and answers with a JSON 500 envelope.
// A nil logger discards the log entry.
//
// http.ErrAbortHandler is re-panicked so that net/http can abort the
// response as intended.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error("recovered from panic in HTTP handler",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", debug.Stack()))
				httperr.WriteJSON(w, httperr.New(http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
