// SPDX-License-Identifier: MIT

// Package config loads arteloo configuration from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"time"

	"github.com/ManuGH/arteloo/internal/arte"
)

// Config is the complete runtime configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	// AddonURL is the public base URL announced in logs and the manifest hint.
	AddonURL   string `yaml:"addon_url"`
	LogLevel   string `yaml:"log_level"`
	LogService string `yaml:"log_service"`

	Upstream  UpstreamConfig  `yaml:"upstream"`
	Cache     CacheConfig     `yaml:"cache"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// UpstreamConfig controls the Arte API client.
type UpstreamConfig struct {
	EMACBaseURL      string        `yaml:"emac_base_url"`
	PlayerBaseURL    string        `yaml:"player_base_url"`
	Language         string        `yaml:"language"`
	Country          string        `yaml:"country"`
	UserAgent        string        `yaml:"user_agent"`
	Timeout          time.Duration `yaml:"timeout"`
	RateLimitRPS     float64       `yaml:"rate_limit_rps"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	MaxZonePages     int           `yaml:"max_zone_pages"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerReset     time.Duration `yaml:"breaker_reset"`
}

// CacheConfig controls the in-memory response cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// SweepInterval enables the background janitor when positive.
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Disabled      bool          `yaml:"disabled"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

const defaultPort = "7000"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":" + defaultPort,
		AddonURL:   "http://localhost:" + defaultPort,
		LogLevel:   "info",
		LogService: "arteloo",
		Upstream: UpstreamConfig{
			EMACBaseURL:      arte.DefaultEMACBaseURL,
			PlayerBaseURL:    arte.DefaultPlayerBaseURL,
			Language:         arte.DefaultLanguage,
			Country:          arte.DefaultCountry,
			UserAgent:        arte.DefaultUserAgent,
			Timeout:          arte.DefaultTimeout,
			RateLimitRPS:     arte.DefaultRateLimit,
			RateLimitBurst:   arte.DefaultRateBurst,
			MaxZonePages:     arte.DefaultMaxZonePages,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Cache: CacheConfig{
			TTL: arte.DefaultCacheTTL,
		},
		Server: ServerConfig{
			RateLimitPerMinute: 300,
			ReadHeaderTimeout:  10 * time.Second,
			ShutdownTimeout:    10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}
