// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package filter narrows skill listings with CEL expressions.

Expressions see one skill at a time through these variables:

	id          string
	name        string
	description string
	tags        list(string)
	category    string
	badge       string
	owner       string
	source      string
	installs    int

An expression must evaluate to a bool. For example:

	installs >= 10000 && "react" in tags
	owner == "vercel-labs" || badge == "official"
	name.startsWith("supabase")

# Usage

	f, err := filter.Default().Compile(`installs > 5000`)
	if err != nil {
		// err is a *filter.ParseError or *filter.CheckError for bad input
	}
	kept, err := f.Apply(skills)

Compilation enforces a maximum expression length and evaluation enforces a
runtime cost limit.
*/
package filter
