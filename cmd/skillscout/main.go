// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command skillscout serves agent skill discovery over HTTP and MCP.
package main

import (
	"fmt"
	"os"

	"github.com/stacklok/skillscout/cmd/skillscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
