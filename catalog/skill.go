// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import "strings"

// Badge marks how trustworthy a skill's publisher is.
type Badge string

// Badges in precedence order.
const (
	BadgeOfficial  Badge = "official"
	BadgeVerified  Badge = "verified"
	BadgeCommunity Badge = "community"
)

// VerifiedInstallThreshold is the install count at which a skill is verified
// regardless of its owner.
const VerifiedInstallThreshold = 10000

var (
	officialOwners = map[string]struct{}{
		"vercel-labs": {},
		"anthropics":  {},
		"vercel":      {},
	}
	verifiedOwners = map[string]struct{}{
		"remotion-dev":     {},
		"expo":             {},
		"supabase":         {},
		"better-auth":      {},
		"google-labs-code": {},
		"google-gemini":    {},
		"openai":           {},
	}
)

// BadgeFor returns the badge for a skill published by owner with the given
// install count.
func BadgeFor(owner string, installs int) Badge {
	if _, ok := officialOwners[owner]; ok {
		return BadgeOfficial
	}
	if _, ok := verifiedOwners[owner]; ok || installs >= VerifiedInstallThreshold {
		return BadgeVerified
	}
	return BadgeCommunity
}

// View selects which upstream leaderboard to browse.
type View string

// Supported views.
const (
	ViewAllTime  View = "all-time"
	ViewTrending View = "trending"
	ViewHot      View = "hot"
)

// Views returns every supported view.
func Views() []View {
	return []View{ViewAllTime, ViewTrending, ViewHot}
}

// ParseView maps user input onto a View, defaulting to ViewAllTime.
func ParseView(s string) View {
	switch v := View(strings.TrimSpace(s)); v {
	case ViewAllTime, ViewTrending, ViewHot:
		return v
	default:
		return ViewAllTime
	}
}

// Format is the response encoding requested by a caller.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat maps user input onto a Format, defaulting to FormatJSON.
func ParseFormat(s string) Format {
	if strings.TrimSpace(s) == string(FormatText) {
		return FormatText
	}
	return FormatJSON
}

// Skill is the canonical, normalized description of a catalog entry.
// Values are never mutated after construction; use Clone before handing a
// skill to code that might modify its tags.
type Skill struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Homepage       string   `json:"homepage" yaml:"homepage"`
	RepoURL        string   `json:"repoUrl" yaml:"repoUrl"`
	Tags           []string `json:"tags" yaml:"tags"`
	Category       Category `json:"category" yaml:"category"`
	InstallCommand string   `json:"installCommand" yaml:"installCommand"`
	UpdatedAt      string   `json:"updatedAt" yaml:"updatedAt"`
	Source         string   `json:"source" yaml:"source"`
	Badge          Badge    `json:"badge" yaml:"badge"`
	Installs       int      `json:"installs" yaml:"installs"`
	Owner          string   `json:"owner" yaml:"owner"`
}

// Clone returns a deep copy of s.
func (s Skill) Clone() Skill {
	s.Tags = append([]string(nil), s.Tags...)
	return s
}

// FilterByCategory returns the skills in category. CategoryAll returns a copy
// of the input.
func FilterByCategory(skills []Skill, category Category) []Skill {
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		if category == CategoryAll || s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
