// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stacklok/skillscout/api"
	"github.com/stacklok/skillscout/catalog"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/filter"
)

const defaultSearchLimit = 10

type searchOptions struct {
	category string
	view     string
	limit    int
	filter   string
	live     bool
	json     bool
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	so := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search skills in the bundled snapshot",
		Long: `Search skills in the bundled snapshot. Without a query the most installed
skills are listed. With --live the skills.sh directory is queried first and
the snapshot is only used when it cannot be reached.`,
		Example: `  skillscout search playwright
  skillscout search --category testing
  skillscout search react --filter 'installs > 10000' --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return so.run(cmd, opts, strings.Join(args, " "))
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&so.category, "category", "c", string(catalog.CategoryAll), "category to search in")
	flags.StringVar(&so.view, "view", string(catalog.ViewAllTime), "leaderboard view used with --live")
	flags.IntVarP(&so.limit, "limit", "n", defaultSearchLimit, "maximum number of results")
	flags.StringVar(&so.filter, "filter", "", "CEL expression each result must satisfy")
	flags.BoolVar(&so.live, "live", false, "query skills.sh before the bundled snapshot")
	flags.BoolVar(&so.json, "json", false, "print results as JSON")
	return cmd
}

func (so *searchOptions) run(cmd *cobra.Command, opts *globalOptions, query string) error {
	if so.limit < 1 || so.limit > api.MaxLimit {
		return fmt.Errorf("--limit must be between 1 and %d", api.MaxLimit)
	}
	category := catalog.ParseCategory(so.category)
	if string(category) != strings.TrimSpace(so.category) {
		return fmt.Errorf("unknown category %q", so.category)
	}

	req := discovery.Request{
		Query:    strings.TrimSpace(query),
		Category: category,
		View:     catalog.ParseView(so.view),
		Limit:    so.limit,
	}
	if so.filter != "" {
		f, err := filter.Default().Compile(so.filter)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		req.Filter = f
	}

	res, err := so.search(cmd, opts, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if so.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Skills)
	}
	_, err = fmt.Fprintln(out, api.RenderText(req.Query, req.Category, res))
	return err
}

func (so *searchOptions) search(cmd *cobra.Command, opts *globalOptions, req discovery.Request) (*discovery.Result, error) {
	if !so.live {
		return discovery.NewService(nil).Offline(req)
	}

	cfg, log, err := opts.load()
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	svc := discovery.NewService(newUpstreamClient(cfg, log), discovery.WithLogger(log))
	res, err := svc.Search(cmd.Context(), req)
	if err != nil {
		return nil, err
	}
	if res.Source == discovery.SourceFallback {
		log.Warn("skills.sh unavailable, showing bundled snapshot", zap.String("snapshot", catalog.DatasetSnapshotDate))
	}
	return res, nil
}
