// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the skillscout command line.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stacklok/skillscout/config"
	"github.com/stacklok/skillscout/env"
	"github.com/stacklok/skillscout/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configFile string
	viper      *viper.Viper
	envReader  env.Reader
}

// NewRootCmd builds the skillscout command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{
		viper:     config.New(),
		envReader: &env.OSReader{},
	}

	root := &cobra.Command{
		Use:   "skillscout",
		Short: "Discover agent skills from skills.sh",
		Long: `skillscout proxies the skills.sh directory for AI agents.

It normalizes, categorizes and fuzzy-searches packaged agent skills, serves
them as JSON or plain text over HTTP and MCP, and falls back to a bundled
snapshot when the upstream directory is unavailable.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("skillscout {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/skillscout/config.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	_ = opts.viper.BindPFlag(config.KeyDebug, flags.Lookup("debug"))

	root.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the configuration and builds the logger it asks for.
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	file := o.configFile
	if file == "" {
		file = config.DefaultFile()
	}
	cfg, err := config.Load(o.viper, o.envReader, file)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Initialize(o.envReader, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
