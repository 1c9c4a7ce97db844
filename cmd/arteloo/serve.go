// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ManuGH/arteloo/internal/addon"
	"github.com/ManuGH/arteloo/internal/api"
	"github.com/ManuGH/arteloo/internal/arte"
	"github.com/ManuGH/arteloo/internal/health"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/telemetry"
	"github.com/ManuGH/arteloo/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Stremio addon HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	emacHost := ""
	if u, err := url.Parse(cfg.Upstream.EMACBaseURL); err == nil {
		emacHost = u.Host
	}
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: version.Version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		Language:       cfg.Upstream.Language,
		Country:        cfg.Upstream.Country,
		EMACHost:       emacHost,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("failed to flush traces")
		}
	}()

	store, stopStore := newStore(cfg.Cache)
	defer stopStore()

	client := arte.New(store, clientOptions(cfg))
	svc := addon.NewService(client)

	hm := health.NewManager(addon.AddonName, addon.AddonVersion)
	hm.RegisterChecker(health.NewBreakerChecker(client.Breaker()))
	hm.RegisterChecker(health.NewCacheChecker(store))

	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.LogService
	}

	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("listen_addr", cfg.ListenAddr).
		Str("addon_url", cfg.AddonURL).
		Str("language", cfg.Upstream.Language).
		Dur("cache_ttl", cfg.Cache.TTL).
		Bool("cache_disabled", cfg.Cache.Disabled).
		Bool("tracing", cfg.Telemetry.Enabled).
		Str("build", version.Get().String()).
		Msg("starting arteloo")

	srv := api.New(api.Config{
		ListenAddr:         cfg.ListenAddr,
		PublicURL:          cfg.AddonURL,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		ReadHeaderTimeout:  cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:    cfg.Server.ShutdownTimeout,
		TracingService:     tracingService,
	}, svc, hm, store)

	return srv.Run(ctx)
}
