// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr carries HTTP status codes through error chains and renders
them as responses.

	err := httperr.WithCode(ratelimit.ErrLimitExceeded, http.StatusTooManyRequests)
	code := httperr.Code(fmt.Errorf("search: %w", err)) // 429

Code returns 500 for errors without a code and 200 for nil.

# Rendering

WriteJSON writes the error envelope used by every JSON endpoint:

	{"success": false, "error": "Rate limit exceeded. Please retry shortly."}

WriteText writes the same message as plain text. For 5xx codes only the
status text is shown to clients.
*/
package httperr
