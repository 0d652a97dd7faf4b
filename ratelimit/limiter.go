// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"errors"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests a client may make per window.
	DefaultLimit = 120

	// DefaultWindow is the length of a rate limit window.
	DefaultWindow = time.Minute

	// DefaultSweepThreshold is the store size above which expired entries are
	// evicted before a request is counted.
	DefaultSweepThreshold = 5000
)

// ErrLimitExceeded is returned when a client has used its budget for the
// current window.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Message is the client-facing explanation sent with a rejected request.
const Message = "Rate limit exceeded. Please retry shortly."

// Snapshot is the outcome of a Consume call.
type Snapshot struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Err returns ErrLimitExceeded for a rejected request and nil otherwise.
func (s Snapshot) Err() error {
	if s.Allowed {
		return nil
	}
	return ErrLimitExceeded
}

// RetryAfter returns how long a rejected client should wait, rounded up to
// whole seconds and never less than one second.
func (s Snapshot) RetryAfter(now time.Time) time.Duration {
	wait := s.ResetAt.Sub(now)
	secs := (wait + time.Second - 1) / time.Second
	return max(secs, 1) * time.Second
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by client. It is safe for
// concurrent use.
type Limiter struct {
	limit          int
	window         time.Duration
	sweepThreshold int
	now            func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLimit sets the number of requests allowed per window.
func WithLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithWindow sets the window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithSweepThreshold sets the store size that triggers eviction of expired
// entries.
func WithSweepThreshold(n int) Option {
	return func(l *Limiter) {
		l.sweepThreshold = n
	}
}

// WithClock overrides the time source. Tests use it to move across windows.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a Limiter with DefaultLimit requests per DefaultWindow unless
// overridden by opts.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		limit:          DefaultLimit,
		window:         DefaultWindow,
		sweepThreshold: DefaultSweepThreshold,
		now:            time.Now,
		entries:        make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the per-window request budget.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Consume counts one request for key. A rejected request does not use up
// budget.
func (l *Limiter) Consume(key string) Snapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) > l.sweepThreshold {
		l.sweepLocked(now)
	}

	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}

	if e.count >= l.limit {
		return Snapshot{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	return Snapshot{Allowed: true, Remaining: max(l.limit-e.count, 0), ResetAt: e.resetAt}
}

// Sweep evicts every entry whose window has expired and returns how many
// were removed.
func (l *Limiter) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(now)
}

func (l *Limiter) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Reset forgets every client.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.entries)
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
