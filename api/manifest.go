// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
)

// Protocol identifies the manifest schema.
const Protocol = "agent-skills-discovery-v1"

// manifestCacheSeconds is how long shared caches may keep the manifest.
const manifestCacheSeconds = 300

// Manifest describes the API to agents at /.well-known/skills.json.
type Manifest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Website     string            `json:"website"`
	Endpoints   ManifestEndpoints `json:"endpoints"`
	Install     ManifestInstall   `json:"install"`
	RateLimit   ManifestRateLimit `json:"rateLimit"`
	Response    ManifestResponse  `json:"response"`
	Cache       ManifestCache     `json:"cache"`
	Examples    []string          `json:"examples"`
	Source      string            `json:"source"`
	Protocol    string            `json:"protocol"`
}

// ManifestEndpoints lists the public paths.
type ManifestEndpoints struct {
	Search   string `json:"search"`
	Docs     string `json:"docs"`
	Manifest string `json:"manifest"`
	MCP      string `json:"mcp"`
}

// ManifestInstall explains how install commands are built.
type ManifestInstall struct {
	RequiresOwnerApproval bool   `json:"requiresOwnerApproval"`
	CommandTemplate       string `json:"commandTemplate"`
}

// ManifestRateLimit reports the live limiter configuration.
type ManifestRateLimit struct {
	Limit         int  `json:"limit"`
	WindowSeconds int  `json:"windowSeconds"`
	Headers       bool `json:"headers"`
}

// ManifestResponse enumerates accepted parameter values.
type ManifestResponse struct {
	Formats    []catalog.Format   `json:"formats"`
	Views      []catalog.View     `json:"views"`
	Categories []catalog.Category `json:"categories"`
	Filter     string             `json:"filter"`
}

// ManifestCache reports response cache lifetimes.
type ManifestCache struct {
	PublicSeconds int `json:"publicSeconds"`
}

func (s *Server) manifest() Manifest {
	return Manifest{
		Name:        "skill_scout",
		Description: "Agent-first discovery API for live skills.sh search, category filtering, and deterministic install commands.",
		Website:     "https://skillscout.dev",
		Endpoints: ManifestEndpoints{
			Search:   "/api/skills",
			Docs:     "/for-agents",
			Manifest: "/.well-known/skills.json",
			MCP:      "/mcp",
		},
		Install: ManifestInstall{
			RequiresOwnerApproval: true,
			CommandTemplate:       "npx skills add <owner/repo> --skill <skill-id>",
		},
		RateLimit: ManifestRateLimit{
			Limit:         s.limiter.Limit(),
			WindowSeconds: int(s.limiter.Window().Seconds()),
			Headers:       true,
		},
		Response: ManifestResponse{
			Formats:    []catalog.Format{catalog.FormatJSON, catalog.FormatText},
			Views:      catalog.Views(),
			Categories: catalog.SkillCategories(),
			Filter:     "CEL expression over id, name, description, tags, category, badge, owner, source, installs",
		},
		Cache: ManifestCache{PublicSeconds: manifestCacheSeconds},
		Examples: []string{
			"/api/skills?q=react&limit=20",
			"/api/skills?view=trending&limit=20",
			"/api/skills?q=testing&category=testing&format=text",
			"/api/skills?category=frontend&filter=installs%20%3E%3D%2010000",
		},
		Source:   string(discovery.SourceUpstream),
		Protocol: Protocol,
	}
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300, s-maxage=300")
	writeJSON(w, http.StatusOK, s.manifest())
}
