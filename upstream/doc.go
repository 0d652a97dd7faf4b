// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package upstream is the client for the live skills.sh catalog API.

# Endpoints

	GET {base}/api/search?q={query}&limit={n}
	GET {base}/api/skills/{view}/{page}

Both return an envelope of the form {"skills": [...], "total", "hasMore",
"page"}. Envelope fields other than skills are optional.

# Failure Handling

Every attempt is bounded by a timeout (7s by default). A failed attempt is
retried up to two more times when the failure is a network error, a timeout,
an undecodable body, or a 429/5xx response. Other 4xx responses fail at once.
The n-th retry waits n×250ms. Failures are returned as [*Error] and match
[ErrUnavailable] or [ErrRejected] with errors.Is.

# Payload Validation

Catalog payloads are untrusted. Each record is validated against an embedded
JSON schema before decoding; records that fail are skipped and counted in
[Page.Skipped] rather than failing the whole page.

# Caching

Successful responses are kept for five minutes and concurrent requests for the
same URL share a single upstream call.
*/
package upstream
