// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/arteloo/internal/cache"
	"github.com/ManuGH/arteloo/internal/resilience"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status}
}

type fixedBreaker struct{ state resilience.State }

func (b fixedBreaker) Name() string            { return "arte" }
func (b fixedBreaker) State() resilience.State { return b.state }

func TestManager_Health_NoCheckers(t *testing.T) {
	m := NewManager("Arte.tv", "1.0.0")

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "Arte.tv", resp.Addon)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))
	assert.Nil(t, resp.Checks)
}

func TestManager_Health_Uptime(t *testing.T) {
	m := NewManager("Arte.tv", "1.0.0")
	m.now = func() time.Time { return m.startTime.Add(90 * time.Second) }

	assert.Equal(t, int64(90), m.Health(context.Background(), false).Uptime)
}

func TestManager_Health_Verbose(t *testing.T) {
	m := NewManager("Arte.tv", "1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestManager_Ready(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []Status
		wantReady bool
		want      Status
	}{
		{name: "no checkers", wantReady: true, want: StatusHealthy},
		{name: "all healthy", statuses: []Status{StatusHealthy, StatusHealthy}, wantReady: true, want: StatusHealthy},
		{name: "degraded is still ready", statuses: []Status{StatusHealthy, StatusDegraded}, wantReady: true, want: StatusDegraded},
		{name: "unhealthy wins", statuses: []Status{StatusUnhealthy, StatusDegraded}, wantReady: false, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("Arte.tv", "1.0.0")
			for i, s := range tt.statuses {
				m.RegisterChecker(&mockChecker{name: string(rune('a' + i)), status: s})
			}

			resp := m.Ready(context.Background())
			assert.Equal(t, tt.wantReady, resp.Ready)
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestServeReady_OpenBreaker(t *testing.T) {
	m := NewManager("Arte.tv", "1.0.0")
	m.RegisterChecker(NewBreakerChecker(fixedBreaker{state: resilience.StateOpen}))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Ready)
	assert.Equal(t, StatusUnhealthy, body.Checks["upstream"].Status)
	assert.Contains(t, body.Checks["upstream"].Error, "arte")
}

func TestServeHealth_AlwaysOK(t *testing.T) {
	m := NewManager("Arte.tv", "1.0.0")
	m.RegisterChecker(NewBreakerChecker(fixedBreaker{state: resilience.StateOpen}))

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "Arte.tv", body.Addon)
}

func TestBreakerChecker(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, StatusHealthy, NewBreakerChecker(fixedBreaker{state: resilience.StateClosed}).Check(ctx).Status)
	assert.Equal(t, StatusDegraded, NewBreakerChecker(fixedBreaker{state: resilience.StateHalfOpen}).Check(ctx).Status)
	assert.Equal(t, StatusUnhealthy, NewBreakerChecker(fixedBreaker{state: resilience.StateOpen}).Check(ctx).Status)
	assert.Equal(t, StatusHealthy, NewBreakerChecker(nil).Check(ctx).Status)
}

func TestCacheChecker(t *testing.T) {
	store := cache.NewMemoryCache()
	checker := NewCacheChecker(store)

	assert.Equal(t, "0 entries", checker.Check(context.Background()).Message)

	store.Set("a", 1, time.Minute)
	store.Get("a")
	store.Get("missing")

	res := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "1 entries, 50% hits", res.Message)
}
