// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/stacklok/skillscout/catalog"
)

// Fetcher reads pages from the live skills catalog.
type Fetcher interface {
	// FetchSearch runs a free-text search returning at most limit records.
	FetchSearch(ctx context.Context, query string, limit int) (*Page, error)

	// FetchList returns one page of a catalog leaderboard.
	FetchList(ctx context.Context, view catalog.View, page int) (*Page, error)
}
