// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package api serves the Skill Scout HTTP surface.

	GET  /api/skills               skill search and leaderboard browse
	GET  /.well-known/skills.json  discovery manifest for agents
	POST /mcp                      MCP tools over streamable HTTP
	GET  /healthz                  liveness

Every response allows any origin. /api/skills and /mcp share one per-client
rate limiter; its state is reported in X-RateLimit-* headers and exhausted
clients receive 429 with Retry-After.
*/
package api
