// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"

	"github.com/ManuGH/arteloo/internal/cache"
	"github.com/ManuGH/arteloo/internal/resilience"
)

// BreakerState is implemented by *resilience.CircuitBreaker.
type BreakerState interface {
	Name() string
	State() resilience.State
}

// BreakerChecker reports the upstream circuit breaker. An open breaker makes
// the instance not ready; half-open is degraded.
type BreakerChecker struct {
	breaker BreakerState
}

func NewBreakerChecker(b BreakerState) *BreakerChecker {
	return &BreakerChecker{breaker: b}
}

func (c *BreakerChecker) Name() string {
	return "upstream"
}

func (c *BreakerChecker) Check(context.Context) CheckResult {
	if c.breaker == nil {
		return CheckResult{Status: StatusHealthy, Message: "circuit breaker disabled"}
	}

	switch state := c.breaker.State(); state {
	case resilience.StateOpen:
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("circuit %s is open", c.breaker.Name()),
		}
	case resilience.StateHalfOpen:
		return CheckResult{Status: StatusDegraded, Message: "circuit probing upstream"}
	default:
		return CheckResult{Status: StatusHealthy, Message: "circuit closed"}
	}
}

// CacheChecker reports the response cache occupancy and hit ratio.
type CacheChecker struct {
	store cache.Cache
}

func NewCacheChecker(store cache.Cache) *CacheChecker {
	return &CacheChecker{store: store}
}

func (c *CacheChecker) Name() string {
	return "cache"
}

func (c *CacheChecker) Check(context.Context) CheckResult {
	stats := c.store.Stats()
	lookups := stats.Hits + stats.Misses
	if lookups == 0 {
		return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d entries", stats.CurrentSize)}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d entries, %.0f%% hits", stats.CurrentSize, 100*float64(stats.Hits)/float64(lookups)),
	}
}
