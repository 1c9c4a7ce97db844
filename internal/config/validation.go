// SPDX-License-Identifier: MIT

package config

import (
	"github.com/ManuGH/arteloo/internal/telemetry"
	"github.com/ManuGH/arteloo/internal/validate"
)

var (
	logLevels     = []string{"trace", "debug", "info", "warn", "error"}
	exporterTypes = []string{telemetry.ExporterGRPC, telemetry.ExporterHTTP}
	httpSchemes   = []string{"http", "https"}
)

// Validate checks cfg and returns a validate.ValidationError listing every problem.
func Validate(cfg Config) error {
	v := validate.New()

	v.ListenAddr("listen_addr", cfg.ListenAddr)
	v.URL("addon_url", cfg.AddonURL, httpSchemes)
	v.OneOf("log_level", cfg.LogLevel, logLevels)
	v.NotEmpty("log_service", cfg.LogService)

	up := cfg.Upstream
	v.URL("upstream.emac_base_url", up.EMACBaseURL, httpSchemes)
	v.URL("upstream.player_base_url", up.PlayerBaseURL, httpSchemes)
	v.NotEmpty("upstream.language", up.Language)
	v.NotEmpty("upstream.country", up.Country)
	v.NotEmpty("upstream.user_agent", up.UserAgent)
	v.PositiveDuration("upstream.timeout", up.Timeout)
	// 0 disables upstream rate limiting.
	v.FloatRange("upstream.rate_limit_rps", up.RateLimitRPS, 0, 1000)
	v.Range("upstream.rate_limit_burst", up.RateLimitBurst, 1, 1000)
	v.Range("upstream.max_zone_pages", up.MaxZonePages, 1, 50)
	v.Range("upstream.breaker_threshold", up.BreakerThreshold, 1, 100)
	v.PositiveDuration("upstream.breaker_reset", up.BreakerReset)

	v.PositiveDuration("cache.ttl", cfg.Cache.TTL)
	v.NonNegativeDuration("cache.sweep_interval", cfg.Cache.SweepInterval)

	// 0 disables inbound rate limiting.
	v.Range("server.rate_limit_per_minute", cfg.Server.RateLimitPerMinute, 0, 1_000_000)
	v.PositiveDuration("server.read_header_timeout", cfg.Server.ReadHeaderTimeout)
	v.PositiveDuration("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, exporterTypes)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.sampling_rate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
