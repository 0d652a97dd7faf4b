// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ratelimit provides a process-wide fixed-window request limiter
// keyed by client address.
//
// # Basic Usage
//
//	limiter := ratelimit.New()
//	snap := limiter.Consume(ratelimit.ClientKey(r))
//	if !snap.Allowed {
//		// reply 429, Retry-After: snap.RetryAfter(time.Now())
//	}
//
// State lives in memory only and is lost on restart. Expired entries are
// swept once the store grows past the sweep threshold; [Limiter.Sweep] and
// [Limiter.Reset] are exposed for tests and maintenance.
package ratelimit
