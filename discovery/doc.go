// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package discovery answers skill queries. It decides between a live search
and a leaderboard browse, normalizes and filters what the live catalog
returns, and falls back to the bundled dataset when the catalog cannot be
reached.

A query of at least two characters is a search: the catalog is asked for
enough records to survive the category filter and the result is truncated
to the requested limit. Anything shorter browses the chosen leaderboard
view, reading consecutive pages until the limit is filled, the catalog runs
out, or the page cap is reached.

Any upstream failure switches to the offline search engine. The fallback is
reported through the configured alerter and never retried.
*/
package discovery
