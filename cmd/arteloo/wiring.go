// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/ManuGH/arteloo/internal/arte"
	"github.com/ManuGH/arteloo/internal/cache"
	"github.com/ManuGH/arteloo/internal/config"
)

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.NewLoader(strings.TrimSpace(opts.configPath), opts.envFile).Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

// newStore builds the response cache. The returned func stops its janitor.
func newStore(cfg config.CacheConfig) (cache.Cache, func()) {
	if cfg.Disabled {
		return cache.NewNoOpCache(), func() {}
	}
	var opts []cache.Option
	if cfg.SweepInterval > 0 {
		opts = append(opts, cache.WithJanitor(cfg.SweepInterval))
	}
	store := cache.NewMemoryCache(opts...)
	return store, store.Stop
}

func clientOptions(cfg config.Config) arte.Options {
	up := cfg.Upstream
	rps := up.RateLimitRPS
	if rps == 0 {
		// Zero disables limiting in the configuration; the client reads zero as "default".
		rps = -1
	}
	return arte.Options{
		EMACBaseURL:   up.EMACBaseURL,
		PlayerBaseURL: up.PlayerBaseURL,
		Language:      up.Language,
		Country:       up.Country,
		UserAgent:     up.UserAgent,
		Timeout:       up.Timeout,
		CacheTTL:      cfg.Cache.TTL,
		MaxZonePages:  up.MaxZonePages,
		RateLimit:     rps,
		RateBurst:     up.RateLimitBurst,
		Breaker:       arte.NewBreaker(up.BreakerThreshold, up.BreakerReset),
		Tracing:       cfg.Telemetry.Enabled,
	}
}
