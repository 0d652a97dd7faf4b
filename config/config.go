// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the server configuration from defaults, an optional
// YAML file, SKILLSCOUT_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/stacklok/skillscout/alert"
	"github.com/stacklok/skillscout/env"
	"github.com/stacklok/skillscout/ratelimit"
	"github.com/stacklok/skillscout/upstream"
	httpval "github.com/stacklok/skillscout/validation/http"
)

const (
	// EnvPrefix prefixes every environment variable read by viper.
	EnvPrefix = "SKILLSCOUT"

	// LegacyWebhookEnv is also accepted for the alert webhook URL.
	LegacyWebhookEnv = "FALLBACK_ALERT_WEBHOOK_URL"

	// DefaultListen is the default server address.
	DefaultListen = ":8080"

	// maxRetries bounds upstream.retries.
	maxRetries = 10
)

// Keys understood in the config file and environment.
const (
	KeyListen           = "listen"
	KeyDebug            = "debug"
	KeyUpstreamBaseURL  = "upstream.base_url"
	KeyUpstreamTimeout  = "upstream.timeout"
	KeyUpstreamRetries  = "upstream.retries"
	KeyUpstreamBackoff  = "upstream.backoff"
	KeyUpstreamCacheTTL = "upstream.cache_ttl"
	KeyRateLimitLimit   = "rate_limit.limit"
	KeyRateLimitWindow  = "rate_limit.window"
	KeyAlertWebhookURL  = "alert.webhook_url"
	KeyAlertCooldown    = "alert.cooldown"
	KeyAlertTimeout     = "alert.timeout"
)

// Config is the complete server configuration.
type Config struct {
	Listen    string          `mapstructure:"listen"`
	Debug     bool            `mapstructure:"debug"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Alert     AlertConfig     `mapstructure:"alert"`
}

// UpstreamConfig configures the live catalog client.
type UpstreamConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	Backoff  time.Duration `mapstructure:"backoff"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig configures the per-client limiter.
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// AlertConfig configures fallback alerting. An empty WebhookURL only logs.
type AlertConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Cooldown   time.Duration `mapstructure:"cooldown"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyUpstreamBaseURL, upstream.DefaultBaseURL)
	v.SetDefault(KeyUpstreamTimeout, upstream.DefaultTimeout)
	v.SetDefault(KeyUpstreamRetries, upstream.DefaultRetries)
	v.SetDefault(KeyUpstreamBackoff, upstream.DefaultBackoff)
	v.SetDefault(KeyUpstreamCacheTTL, upstream.DefaultCacheTTL)
	v.SetDefault(KeyRateLimitLimit, ratelimit.DefaultLimit)
	v.SetDefault(KeyRateLimitWindow, ratelimit.DefaultWindow)
	v.SetDefault(KeyAlertWebhookURL, "")
	v.SetDefault(KeyAlertCooldown, alert.DefaultCooldown)
	v.SetDefault(KeyAlertTimeout, alert.DefaultTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultFile returns the config file found under the XDG config
// directories, or "" if there is none.
func DefaultFile() string {
	path, err := xdg.SearchConfigFile(filepath.Join("skillscout", "config.yaml"))
	if err != nil {
		return ""
	}
	return path
}

// Load reads file (when not empty) into v and decodes the result. The
// alert webhook falls back to LegacyWebhookEnv read through reader.
func Load(v *viper.Viper, reader env.Reader, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.BaseURL), "/")
	cfg.Alert.WebhookURL = strings.TrimSpace(cfg.Alert.WebhookURL)
	if cfg.Alert.WebhookURL == "" && reader != nil {
		cfg.Alert.WebhookURL, _ = env.First(reader, LegacyWebhookEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Listen) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyListen))
	}
	if err := httpval.ValidateBaseURL(c.Upstream.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyUpstreamBaseURL, err))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyUpstreamTimeout))
	}
	if c.Upstream.Retries < 0 || c.Upstream.Retries > maxRetries {
		errs = append(errs, fmt.Errorf("%s must be between 0 and %d", KeyUpstreamRetries, maxRetries))
	}
	if c.Upstream.Backoff < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyUpstreamBackoff))
	}
	if c.Upstream.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyUpstreamCacheTTL))
	}
	if c.RateLimit.Limit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyRateLimitLimit))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyRateLimitWindow))
	}
	if c.Alert.WebhookURL != "" {
		if err := httpval.ValidateWebhookURL(c.Alert.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyAlertWebhookURL, err))
		}
	}
	if c.Alert.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyAlertCooldown))
	}
	if c.Alert.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyAlertTimeout))
	}
	return errors.Join(errs...)
}
