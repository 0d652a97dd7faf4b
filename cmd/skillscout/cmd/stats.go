// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stacklok/skillscout/catalog"
)

func newStatsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the bundled skills snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats := catalog.Stats()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			return writeStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

func writeStats(w io.Writer, stats catalog.EcosystemStats) error {
	p := message.NewPrinter(language.English)

	categories := make([]string, len(stats.Categories))
	for i, c := range stats.Categories {
		categories[i] = string(c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot:   %s\n", catalog.DatasetSnapshotDate)
	p.Fprintf(&b, "Skills:     %d\n", stats.TotalSkills)
	p.Fprintf(&b, "Installs:   %d\n", stats.TotalInstalls)
	fmt.Fprintf(&b, "Categories: %s\n", strings.Join(categories, ", "))
	b.WriteString("\nTop skills:\n")
	for i, s := range stats.TopSkills {
		p.Fprintf(&b, "%3d. %s (%s) - %d installs\n", i+1, s.Name, s.Source, s.Installs)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
