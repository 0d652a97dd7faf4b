// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logger builds the zap logger shared by the server and the CLI.
// Structured JSON goes to stdout unless UNSTRUCTURED_LOGS is true, in which
// case plain console lines with only time and level go to stderr.
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stacklok/skillscout/env"
)

// UnstructuredLogsEnv selects console output when set to a true value.
const UnstructuredLogsEnv = "UNSTRUCTURED_LOGS"

// New builds a logger configured from the environment. debug lowers the
// level to debug.
func New(envReader env.Reader, debug bool) (*zap.Logger, error) {
	l, err := buildConfig(envReader, debug).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// Initialize builds a logger with New and installs it as the zap global.
func Initialize(envReader env.Reader, debug bool) (*zap.Logger, error) {
	l, err := New(envReader, debug)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

func buildConfig(envReader env.Reader, debug bool) zap.Config {
	var config zap.Config
	if unstructuredLogsWithEnv(envReader) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.OutputPaths = []string{"stderr"}
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return config
}

// unstructuredLogsWithEnv defaults to structured output when the variable
// is unset or invalid; the server usually runs behind a log collector.
func unstructuredLogsWithEnv(envReader env.Reader) bool {
	unstructured, ok := env.Bool(envReader, UnstructuredLogsEnv)
	return ok && unstructured
}
