// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package catalog defines the canonical skill model served by skillscout and
the pure functions that build it.

# Categories

Every skill carries exactly one [Category] from a closed set. Categories are
inferred from a skill's name, owner and tags by keyword scoring:

	cat := catalog.InferCategory("playwright-e2e", "acme", []string{"testing"})
	// cat == catalog.CategoryTesting

User input is mapped onto the enumerations with parse functions that never
fail: [ParseCategory], [ParseView] and [ParseFormat] fall back to
[CategoryAll], [ViewAllTime] and [FormatJSON] respectively.

# Normalization

[Normalize] turns an upstream [RawSkill] into a [Skill], deriving tags, the
homepage and repository URLs, the install command, the category and the
badge.

# Bundled Dataset

[Dataset] returns the snapshot embedded at build time. It is only served when
the live catalog cannot be reached.
*/
package catalog
