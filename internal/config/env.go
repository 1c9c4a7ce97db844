// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/arteloo/internal/log"
)

// envParser converts a raw environment value. ok is false when the value is invalid.
type envParser[T any] func(raw string) (value T, ok bool)

// lookupEnv resolves key from the environment, logging whether the value came
// from the environment or the default. Invalid values fall back to the default
// with a warning.
func lookupEnv[T any](logger zerolog.Logger, key string, defaultValue T, parse envParser[T]) T {
	raw, exists := os.LookupEnv(key)
	if !exists {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}
	if raw == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return defaultValue
	}

	v, ok := parse(raw)
	if !ok {
		logger.Warn().
			Str("key", key).
			Str("value", raw).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}

	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Interface("value", v)
	}
	ev.Msg("using environment variable")
	return v
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password") || strings.Contains(k, "secret")
}

func configLogger() zerolog.Logger {
	return log.WithComponent("config")
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return lookupEnv(configLogger(), key, defaultValue, func(raw string) (string, bool) {
		return raw, true
	})
}

// ParseInt reads an integer from environment variable or returns default value.
// It falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	return lookupEnv(configLogger(), key, defaultValue, func(raw string) (int, bool) {
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		return i, err == nil
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return lookupEnv(configLogger(), key, defaultValue, func(raw string) (time.Duration, bool) {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		return d, err == nil
	})
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return lookupEnv(configLogger(), key, defaultValue, func(raw string) (bool, bool) {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	})
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return lookupEnv(configLogger(), key, defaultValue, func(raw string) (float64, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return f, err == nil
	})
}
