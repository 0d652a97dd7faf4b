// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// HomepageBase is the public catalog site skills link to.
	HomepageBase = "https://skills.sh"

	maxTags = 8
)

// repoURLOverrides lists sources that do not live on GitHub.
var repoURLOverrides = map[string]string{
	"mintlify/com":   "https://mintlify.com",
	"huggingface/co": "https://huggingface.co",
}

// RawSkill is a skill record as reported by the upstream catalog.
type RawSkill struct {
	ID       string `json:"id,omitempty"`
	Source   string `json:"source"`
	SkillID  string `json:"skillId"`
	Name     string `json:"name"`
	Installs int    `json:"installs"`
}

// Normalize converts an upstream record into a Skill. now stamps UpdatedAt.
func Normalize(raw RawSkill, now time.Time) Skill {
	source := strings.TrimSpace(raw.Source)
	skillID := strings.TrimSpace(raw.SkillID)
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = skillID
	}
	owner := OwnerOf(source)
	installs := max(raw.Installs, 0)
	tags := DeriveTags(skillID, name, source)

	return Skill{
		ID:             source + "/" + skillID,
		Name:           name,
		Description:    fmt.Sprintf("%s skill from %s.", name, source),
		Homepage:       HomepageBase + "/" + escapeSegments(source+"/"+skillID),
		RepoURL:        RepoURL(source),
		Tags:           tags,
		Category:       InferCategory(name, owner, tags),
		InstallCommand: InstallCommand(source, skillID),
		UpdatedAt:      now.UTC().Format(time.DateOnly),
		Source:         source,
		Badge:          BadgeFor(owner, installs),
		Installs:       installs,
		Owner:          owner,
	}
}

// NormalizeAll normalizes a batch, keeping the first record for each id.
func NormalizeAll(raws []RawSkill, now time.Time) []Skill {
	out := make([]Skill, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		s := Normalize(raw, now)
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// OwnerOf returns the first path segment of an "owner/repo" source.
func OwnerOf(source string) string {
	owner, _, _ := strings.Cut(source, "/")
	return owner
}

// InstallCommand returns the CLI invocation that installs skillID from source.
func InstallCommand(source, skillID string) string {
	return fmt.Sprintf("npx skills add %s --skill %s", source, skillID)
}

// RepoURL returns the repository address for source.
func RepoURL(source string) string {
	if u, ok := repoURLOverrides[source]; ok {
		return u
	}
	return "https://github.com/" + source
}

// DeriveTags tokenizes the skill id, name and source into at most eight
// unique lowercase tags in first-seen order.
func DeriveTags(skillID, name, source string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(skillID+" "+name+" "+source), isTagSeparator)
	tags := make([]string, 0, maxTags)
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 1 {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tags = append(tags, tok)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func isTagSeparator(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return false
	case r == '.', r == '+', r == '-':
		return false
	default:
		return true
	}
}

// componentUnescapes restores the characters a URI component keeps
// literal but url.QueryEscape encodes.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeSegments escapes each path segment as a URI component, so reserved
// characters such as ':' and '@' are encoded too.
func escapeSegments(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = componentUnescapes.Replace(url.QueryEscape(p))
	}
	return strings.Join(parts, "/")
}
