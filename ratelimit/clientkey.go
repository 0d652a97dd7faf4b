// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"net/http"
	"strings"

	httpval "github.com/stacklok/skillscout/validation/http"
)

// UnknownClient is the shared bucket for requests that carry no forwarding
// header.
const UnknownClient = "unknown"

// ClientKey identifies the caller of r from the first forwarding header
// present: X-Forwarded-For (first hop), X-Real-IP, then CF-Connecting-IP.
// Requests without a usable header share the UnknownClient bucket.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if key := strings.TrimSpace(first); usable(key) {
			return key
		}
		return UnknownClient
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(r.Header.Get(h)); usable(v) {
			return v
		}
	}
	return UnknownClient
}

func usable(v string) bool {
	return v != "" && httpval.ValidateHeaderValue(v) == nil
}
