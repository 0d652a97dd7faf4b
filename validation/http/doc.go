// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package http provides validation functions for HTTP header values and URLs.

# Header Validation

Client-supplied header values (for example forwarding addresses used as rate
limit keys) are checked per RFC 7230 before use:

	if err := http.ValidateHeaderValue(r.Header.Get("X-Real-IP")); err != nil {
		// ignore the header
	}

The validator rejects empty values, CRLF sequences, control characters and
values longer than 8192 bytes.

# URL Validation

Configured outbound addresses are validated at startup:

	if err := http.ValidateBaseURL("https://skills.sh"); err != nil {
		// refuse to start
	}
	if err := http.ValidateWebhookURL("https://hooks.example.com/x?token=abc"); err != nil {
		// refuse to start
	}

Both require an http or https scheme, a host and no fragment. Base URLs must
additionally carry no query string.
*/
package http
