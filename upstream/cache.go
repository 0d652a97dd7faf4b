// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a successful catalog response is reused.
const DefaultCacheTTL = 300 * time.Second

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// responseCache keeps successful pages for a fixed time. A zero TTL disables
// it.
type responseCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	return &responseCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *responseCache) get(key string) (*Page, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.page.clone(), true
}

func (c *responseCache) put(key string, page *Page) {
	if c.ttl <= 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{page: page.clone(), expires: now.Add(c.ttl)}
}

func (c *responseCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
