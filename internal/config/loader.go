// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names. PORT and ADDON_URL keep the names used by
// existing deployments.
const (
	EnvPort               = "PORT"
	EnvAddonURL           = "ADDON_URL"
	EnvListenAddr         = "ARTELOO_LISTEN_ADDR"
	EnvLogLevel           = "ARTELOO_LOG_LEVEL"
	EnvLogService         = "ARTELOO_LOG_SERVICE"
	EnvEMACBaseURL        = "ARTELOO_EMAC_BASE_URL"
	EnvPlayerBaseURL      = "ARTELOO_PLAYER_BASE_URL"
	EnvLanguage           = "ARTELOO_LANGUAGE"
	EnvCountry            = "ARTELOO_COUNTRY"
	EnvUserAgent          = "ARTELOO_USER_AGENT"
	EnvUpstreamTimeout    = "ARTELOO_UPSTREAM_TIMEOUT"
	EnvUpstreamRPS        = "ARTELOO_UPSTREAM_RATE_LIMIT_RPS"
	EnvUpstreamBurst      = "ARTELOO_UPSTREAM_RATE_LIMIT_BURST"
	EnvMaxZonePages       = "ARTELOO_MAX_ZONE_PAGES"
	EnvBreakerThreshold   = "ARTELOO_BREAKER_THRESHOLD"
	EnvBreakerReset       = "ARTELOO_BREAKER_RESET"
	EnvCacheTTL           = "ARTELOO_CACHE_TTL"
	EnvCacheSweep         = "ARTELOO_CACHE_SWEEP_INTERVAL"
	EnvCacheDisabled      = "ARTELOO_CACHE_DISABLED"
	EnvRateLimitPerMinute = "ARTELOO_RATE_LIMIT_PER_MINUTE"
	EnvShutdownTimeout    = "ARTELOO_SHUTDOWN_TIMEOUT"
	EnvTelemetryEnabled   = "ARTELOO_TELEMETRY_ENABLED"
	EnvTelemetryExporter  = "ARTELOO_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint  = "ARTELOO_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling  = "ARTELOO_TELEMETRY_SAMPLING_RATE"
)

// Loader handles configuration loading with precedence
// defaults < YAML file < environment.
type Loader struct {
	configPath string
	envFile    string
	// ConsumedEnvKeys records every environment key the loader looked at.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. configPath and envFile may be empty. A missing
// envFile is ignored; a missing configPath is an error.
func NewLoader(configPath, envFile string) *Loader {
	return &Loader{
		configPath:      configPath,
		envFile:         envFile,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load builds and validates the configuration.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", l.envFile, err)
		}
	}

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	}

	l.mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file onto cfg with STRICT parsing. Keys absent from
// the file keep their current values.
func (l *Loader) loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *Config) {
	defaultAddon := cfg.AddonURL

	if port := l.envString(EnvPort, ""); port != "" {
		cfg.ListenAddr = ":" + port
		if defaultAddon == Default().AddonURL {
			cfg.AddonURL = "http://localhost:" + port
		}
	}
	cfg.ListenAddr = l.envString(EnvListenAddr, cfg.ListenAddr)
	cfg.AddonURL = strings.TrimRight(l.envString(EnvAddonURL, cfg.AddonURL), "/")
	cfg.LogLevel = strings.ToLower(l.envString(EnvLogLevel, cfg.LogLevel))
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	up := &cfg.Upstream
	up.EMACBaseURL = l.envString(EnvEMACBaseURL, up.EMACBaseURL)
	up.PlayerBaseURL = l.envString(EnvPlayerBaseURL, up.PlayerBaseURL)
	up.Language = l.envString(EnvLanguage, up.Language)
	up.Country = l.envString(EnvCountry, up.Country)
	up.UserAgent = l.envString(EnvUserAgent, up.UserAgent)
	up.Timeout = l.envDuration(EnvUpstreamTimeout, up.Timeout)
	up.RateLimitRPS = l.envFloat(EnvUpstreamRPS, up.RateLimitRPS)
	up.RateLimitBurst = l.envInt(EnvUpstreamBurst, up.RateLimitBurst)
	up.MaxZonePages = l.envInt(EnvMaxZonePages, up.MaxZonePages)
	up.BreakerThreshold = l.envInt(EnvBreakerThreshold, up.BreakerThreshold)
	up.BreakerReset = l.envDuration(EnvBreakerReset, up.BreakerReset)

	cfg.Cache.TTL = l.envDuration(EnvCacheTTL, cfg.Cache.TTL)
	cfg.Cache.SweepInterval = l.envDuration(EnvCacheSweep, cfg.Cache.SweepInterval)
	cfg.Cache.Disabled = l.envBool(EnvCacheDisabled, cfg.Cache.Disabled)

	cfg.Server.RateLimitPerMinute = l.envInt(EnvRateLimitPerMinute, cfg.Server.RateLimitPerMinute)
	cfg.Server.ShutdownTimeout = l.envDuration(EnvShutdownTimeout, cfg.Server.ShutdownTimeout)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTelemetryExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTelemetryEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTelemetrySampling, cfg.Telemetry.SamplingRate)
}

// Wrapper methods for mechanical connection tracking

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}
