// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import "strings"

// Category is one value of the closed set of skill categories.
type Category string

// Supported categories. CategoryAll is only meaningful as a filter; a skill
// never carries it.
const (
	CategoryAll       Category = "all"
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryDesign    Category = "design"
	CategoryTesting   Category = "testing"
	CategoryMarketing Category = "marketing"
	CategoryDevOps    Category = "devops"
	CategoryMobile    Category = "mobile"
	CategoryAIML      Category = "ai-ml"
	CategoryDocs      Category = "docs"
	CategorySecurity  Category = "security"
	CategoryUtilities Category = "utilities"
)

// CategoryMeta describes a category and the keywords used to infer it.
type CategoryMeta struct {
	Value    Category
	Label    string
	Keywords []string
}

// categories is ordered; InferCategory breaks ties by this order.
var categories = []CategoryMeta{
	{Value: CategoryAll, Label: "all"},
	{
		Value: CategoryFrontend,
		Label: "frontend",
		Keywords: []string{
			"react", "vue", "angular", "css", "tailwind", "next", "web-design",
			"ui-ux", "html", "svelte", "astro", "frontend", "shadcn", "component",
			"responsive", "nuxt", "vite", "remix", "composition", "web-artifact",
		},
	},
	{
		Value: CategoryBackend,
		Label: "backend",
		Keywords: []string{
			"api", "database", "server", "node", "express", "graphql", "rest",
			"prisma", "drizzle", "postgres", "redis", "backend", "fastapi",
			"nestjs", "supabase", "convex", "stripe", "microservices",
		},
	},
	{
		Value: CategoryDesign,
		Label: "design",
		Keywords: []string{
			"design", "figma", "color", "font", "layout", "accessibility", "a11y",
			"brand", "visual", "interface-design", "canvas", "theme", "stitch",
			"interaction-design", "web-design-guidelines",
		},
	},
	{
		Value: CategoryTesting,
		Label: "testing",
		Keywords: []string{
			"test", "jest", "playwright", "cypress", "vitest", "e2e", "unit-test",
			"coverage", "qa", "tdd", "debugging", "webapp-testing", "verification",
		},
	},
	{
		Value: CategoryMarketing,
		Label: "marketing",
		Keywords: []string{
			"seo", "analytics", "marketing", "content", "social", "email-sequence",
			"campaign", "growth", "copywriting", "cro", "programmatic-seo",
			"pricing", "launch", "referral", "paid-ads", "backlink",
		},
	},
	{
		Value: CategoryDevOps,
		Label: "devops",
		Keywords: []string{
			"docker", "ci", "cd", "deploy", "kubernetes", "terraform", "aws",
			"gcp", "azure", "devops", "monitoring", "logging", "github-actions",
			"turborepo", "monorepo", "git", "pnpm", "uv",
		},
	},
	{
		Value: CategoryMobile,
		Label: "mobile",
		Keywords: []string{
			"ios", "android", "react-native", "flutter", "mobile", "swift",
			"kotlin", "expo", "native", "swiftui",
		},
	},
	{
		Value: CategoryAIML,
		Label: "ai/ml",
		Keywords: []string{
			"ai", "ml", "gpt", "llm", "openai", "anthropic", "langchain",
			"embedding", "vector", "rag", "agent", "prompt", "mcp", "skill-creator",
			"nblm", "context7",
		},
	},
	{
		Value: CategoryDocs,
		Label: "docs",
		Keywords: []string{
			"docs", "markdown", "readme", "documentation", "wiki", "changelog",
			"writing", "pdf", "docx", "pptx", "xlsx", "slide", "article",
			"comic", "infographic",
		},
	},
	{
		Value: CategorySecurity,
		Label: "security",
		Keywords: []string{
			"security", "auth", "oauth", "jwt", "encryption", "vulnerability",
			"audit", "secret", "better-auth",
		},
	},
	{
		Value: CategoryUtilities,
		Label: "utilities",
		Keywords: []string{
			"util", "helper", "cli", "tool", "format", "lint", "parse", "convert",
			"find-skills", "firecrawl", "browser", "cron", "planning", "code-review",
			"humanizer", "release", "image",
		},
	},
}

// Categories returns every category, including CategoryAll, in declaration order.
func Categories() []CategoryMeta {
	out := make([]CategoryMeta, len(categories))
	for i, c := range categories {
		out[i] = CategoryMeta{Value: c.Value, Label: c.Label, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// SkillCategories returns the categories a skill can carry, i.e. every
// category except CategoryAll.
func SkillCategories() []Category {
	out := make([]Category, 0, len(categories)-1)
	for _, c := range categories {
		if c.Value != CategoryAll {
			out = append(out, c.Value)
		}
	}
	return out
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, meta := range categories {
		if meta.Value == c {
			return true
		}
	}
	return false
}

// ParseCategory maps user input onto a Category. Unknown values map to
// CategoryAll.
func ParseCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	if c.Valid() {
		return c
	}
	return CategoryAll
}

// InferCategory picks the category whose keywords occur most often in the
// skill's name, owner and tags. Ties go to the earlier declared category and
// a zero score yields CategoryUtilities.
func InferCategory(name, owner string, tags []string) Category {
	haystack := strings.ToLower(name + " " + owner + " " + strings.Join(tags, " "))

	best := CategoryUtilities
	bestScore := 0
	for _, meta := range categories {
		if meta.Value == CategoryAll {
			continue
		}
		score := 0
		for _, kw := range meta.Keywords {
			if strings.Contains(haystack, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = meta.Value, score
		}
	}
	return best
}
