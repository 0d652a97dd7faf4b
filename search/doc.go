// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package search implements the offline skill search used when the live
// catalog cannot be reached.
//
// Matching is approximate: a query matches a field when it occurs near the
// start of the field with at most 40% of its characters mistyped. Matches are
// weighted by field (name, description, tags, category, owner) and combined
// per skill. The engine works purely in memory over the bundled dataset:
//
//	skills := search.Default().Search("playwrigt", catalog.CategoryAll)
package search
