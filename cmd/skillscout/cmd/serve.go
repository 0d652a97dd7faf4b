// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/skillscout/alert"
	"github.com/stacklok/skillscout/api"
	"github.com/stacklok/skillscout/config"
	"github.com/stacklok/skillscout/discovery"
	"github.com/stacklok/skillscout/ratelimit"
	"github.com/stacklok/skillscout/upstream"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the skills API, discovery manifest and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().String("listen", config.DefaultListen, "address to listen on")
	_ = opts.viper.BindPFlag(config.KeyListen, cmd.Flags().Lookup("listen"))
	return cmd
}

func newUpstreamClient(cfg *config.Config, log *zap.Logger) *upstream.Client {
	return upstream.NewClient(
		upstream.WithBaseURL(cfg.Upstream.BaseURL),
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithRetries(cfg.Upstream.Retries),
		upstream.WithBackoff(cfg.Upstream.Backoff),
		upstream.WithCacheTTL(cfg.Upstream.CacheTTL),
		upstream.WithUserAgent("skillscout/"+Version),
		upstream.WithLogger(log.Named("upstream")),
	)
}

// serve runs the HTTP server until ctx is done or a termination signal
// arrives, then drains in-flight requests and pending alerts.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	alerter := alert.New(
		alert.WithWebhookURL(cfg.Alert.WebhookURL),
		alert.WithCooldown(cfg.Alert.Cooldown),
		alert.WithTimeout(cfg.Alert.Timeout),
		alert.WithLogger(log.Named("alert")),
	)
	limiter := ratelimit.New(
		ratelimit.WithLimit(cfg.RateLimit.Limit),
		ratelimit.WithWindow(cfg.RateLimit.Window),
	)
	svc := discovery.NewService(newUpstreamClient(cfg, log),
		discovery.WithAlerter(alerter),
		discovery.WithLogger(log.Named("discovery")),
	)
	handler := api.NewServer(svc, limiter,
		api.WithLogger(log.Named("api")),
		api.WithVersion(Version),
	).Handler()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server",
			zap.String("listen", cfg.Listen),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Bool("alerts", alerter.Enabled()),
			zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(limiter.Window())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := limiter.Sweep(); n > 0 {
					log.Debug("swept expired rate limit entries", zap.Int("count", n))
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	alerter.Wait()
	return err
}
