// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// Service identifies this service in webhook payloads.
	Service = "skill_scout"

	// EventFallback is the event name for fallback activations.
	EventFallback = "skills_api_fallback"

	// DefaultCooldown is the minimum time between two webhook notifications.
	DefaultCooldown = 5 * time.Minute

	// DefaultTimeout bounds a single webhook delivery.
	DefaultTimeout = 3 * time.Second
)

// Details describes one fallback activation.
type Details struct {
	IP       string
	Query    string
	Category string
	View     string
	Page     int
	Reason   string
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Service                  string `json:"service"`
	Event                    string `json:"event"`
	At                       string `json:"at"`
	IP                       string `json:"ip"`
	Query                    string `json:"query"`
	Category                 string `json:"category"`
	View                     string `json:"view"`
	Page                     int    `json:"page"`
	Reason                   string `json:"reason"`
	SuppressedSinceLastAlert int    `json:"suppressedSinceLastAlert"`
}

// Alerter emits fallback alerts. It is safe for concurrent use.
type Alerter struct {
	webhookURL string
	cooldown   time.Duration
	timeout    time.Duration
	client     *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	lastAlertAt time.Time
	suppressed  int

	wg sync.WaitGroup
}

// Option configures an Alerter.
type Option func(*Alerter)

// WithWebhookURL enables webhook delivery. An empty URL disables it.
func WithWebhookURL(u string) Option {
	return func(a *Alerter) {
		a.webhookURL = u
	}
}

// WithCooldown sets the minimum time between notifications.
func WithCooldown(d time.Duration) Option {
	return func(a *Alerter) {
		if d >= 0 {
			a.cooldown = d
		}
	}
}

// WithTimeout sets the webhook delivery timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Alerter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithHTTPClient sets the client used for webhook delivery.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Alerter) {
		if c != nil {
			a.client = c
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Alerter) {
		if l != nil {
			a.logger = l
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(a *Alerter) {
		a.now = now
	}
}

// New creates an Alerter.
func New(opts ...Option) *Alerter {
	a := &Alerter{
		cooldown: DefaultCooldown,
		timeout:  DefaultTimeout,
		client:   http.DefaultClient,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether webhook delivery is configured.
func (a *Alerter) Enabled() bool {
	return a.webhookURL != ""
}

// Emit logs the activation and, outside the cooldown window, posts it to
// the webhook. Delivery failures are logged and otherwise ignored.
func (a *Alerter) Emit(ctx context.Context, d Details) {
	a.logger.Error("Skills API fallback activated",
		zap.String("ip", d.IP),
		zap.String("query", d.Query),
		zap.String("category", d.Category),
		zap.String("view", d.View),
		zap.Int("page", d.Page),
		zap.String("reason", d.Reason))

	if !a.Enabled() {
		return
	}

	payload, send := a.claim(d)
	if !send {
		return
	}

	if err := a.post(ctx, payload); err != nil {
		a.logger.Warn("failed to deliver fallback alert", zap.Error(err))
	}
}

// EmitAsync runs Emit in a new goroutine detached from ctx cancellation.
func (a *Alerter) EmitAsync(ctx context.Context, d Details) {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Emit(ctx, d)
	}()
}

// Wait blocks until every EmitAsync call has finished.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

// Suppressed returns the number of activations not yet reported.
func (a *Alerter) Suppressed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.suppressed
}

// claim decides whether this activation is sent. State is updated before
// delivery so that concurrent activations see the new window.
func (a *Alerter) claim(d Details) (Payload, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if !a.lastAlertAt.IsZero() && now.Sub(a.lastAlertAt) < a.cooldown {
		a.suppressed++
		return Payload{}, false
	}

	suppressed := a.suppressed
	a.suppressed = 0
	a.lastAlertAt = now

	return Payload{
		Service:                  Service,
		Event:                    EventFallback,
		At:                       now.UTC().Format(time.RFC3339Nano),
		IP:                       d.IP,
		Query:                    d.Query,
		Category:                 d.Category,
		View:                     d.View,
		Page:                     d.Page,
		Reason:                   d.Reason,
		SuppressedSinceLastAlert: suppressed,
	}, true
}

func (a *Alerter) post(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post alert: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}
