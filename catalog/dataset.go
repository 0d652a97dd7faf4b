// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// DatasetSnapshotDate is the date the bundled dataset was captured.
const DatasetSnapshotDate = "2026-02-13"

//go:embed data/skills.yaml
var datasetYAML []byte

// datasetEntry is one record of data/skills.yaml.
type datasetEntry struct {
	Name        string   `yaml:"name"`
	Source      string   `yaml:"source"`
	Installs    int      `yaml:"installs"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

type datasetFile struct {
	Skills []datasetEntry `yaml:"skills"`
}

var (
	datasetOnce  sync.Once
	datasetCache []Skill
	datasetErr   error
)

// Dataset returns a copy of the bundled skills snapshot used when the live
// catalog is unavailable. It panics if the embedded file is corrupt, which
// can only happen with a broken build.
func Dataset() []Skill {
	skills, err := loadDataset()
	if err != nil {
		panic(err)
	}
	out := make([]Skill, len(skills))
	for i, s := range skills {
		out[i] = s.Clone()
	}
	return out
}

// Count returns the number of skills in the bundled snapshot.
func Count() int {
	skills, err := loadDataset()
	if err != nil {
		panic(err)
	}
	return len(skills)
}

func loadDataset() ([]Skill, error) {
	datasetOnce.Do(func() {
		datasetCache, datasetErr = parseDataset(datasetYAML)
	})
	return datasetCache, datasetErr
}

func parseDataset(data []byte) ([]Skill, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding bundled dataset: %w", err)
	}

	skills := make([]Skill, 0, len(file.Skills))
	seen := make(map[string]struct{}, len(file.Skills))
	for i, e := range file.Skills {
		if e.Name == "" || e.Source == "" {
			return nil, fmt.Errorf("bundled dataset entry %d: name and source are required", i)
		}
		s := datasetSkill(e)
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("bundled dataset entry %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
		skills = append(skills, s)
	}
	return skills, nil
}

// datasetSkill builds a snapshot skill. Snapshot entries predate per-skill
// install commands, so they link to the repository rather than the skill.
func datasetSkill(e datasetEntry) Skill {
	owner := OwnerOf(e.Source)
	tags := slices.Clone(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Skill{
		ID:             e.Source + "/" + e.Name,
		Name:           e.Name,
		Description:    e.Description,
		Homepage:       HomepageBase + "/" + e.Source,
		RepoURL:        "https://github.com/" + e.Source,
		Tags:           tags,
		Category:       InferCategory(e.Name, owner, tags),
		InstallCommand: "npx skills add " + e.Source,
		UpdatedAt:      DatasetSnapshotDate,
		Source:         e.Source,
		Badge:          BadgeFor(owner, e.Installs),
		Installs:       e.Installs,
		Owner:          owner,
	}
}
