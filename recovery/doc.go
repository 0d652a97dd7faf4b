// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery provides panic recovery middleware for HTTP handlers.
//
// It is the only source of 500 responses in the server: a panicking handler
// is logged and answered with the standard error envelope instead of
// crashing the process.
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", handler)
//	srv := &http.Server{Handler: recovery.Middleware(logger)(mux)}
package recovery
