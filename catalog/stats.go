// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"cmp"
	"slices"
)

const topSkillsCount = 10

// TopSkill is the summary of a popular skill.
type TopSkill struct {
	Name     string `json:"name"`
	Installs int    `json:"installs"`
	Source   string `json:"source"`
}

// EcosystemStats summarizes the bundled snapshot.
type EcosystemStats struct {
	TotalSkills   int        `json:"totalSkills"`
	TotalInstalls int        `json:"totalInstalls"`
	Categories    []Category `json:"categories"`
	TopSkills     []TopSkill `json:"topSkills"`
}

// Stats computes ecosystem statistics over the bundled snapshot.
func Stats() EcosystemStats {
	return StatsOf(Dataset())
}

// StatsOf computes ecosystem statistics over skills. Categories are listed in
// first-seen order.
func StatsOf(skills []Skill) EcosystemStats {
	stats := EcosystemStats{
		TotalSkills: len(skills),
		Categories:  []Category{},
		TopSkills:   []TopSkill{},
	}

	seen := make(map[Category]struct{})
	for _, s := range skills {
		stats.TotalInstalls += s.Installs
		if s.Category == CategoryAll {
			continue
		}
		if _, ok := seen[s.Category]; !ok {
			seen[s.Category] = struct{}{}
			stats.Categories = append(stats.Categories, s.Category)
		}
	}

	sorted := slices.Clone(skills)
	slices.SortStableFunc(sorted, func(a, b Skill) int {
		return cmp.Compare(b.Installs, a.Installs)
	})
	for _, s := range sorted[:min(topSkillsCount, len(sorted))] {
		stats.TopSkills = append(stats.TopSkills, TopSkill{Name: s.Name, Installs: s.Installs, Source: s.Source})
	}
	return stats
}
