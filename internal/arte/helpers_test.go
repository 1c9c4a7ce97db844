// SPDX-License-Identifier: MIT

package arte

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/ManuGH/arteloo/internal/cache"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func startMock(t *testing.T) *MockServer {
	t.Helper()
	m := NewMockServer()
	t.Cleanup(m.Close)
	return m
}

func newTestClient(t *testing.T, m *MockServer, mutate ...func(*Options)) *Client {
	t.Helper()
	return newTestClientWithStore(t, m, cache.NewMemoryCache(), mutate...)
}

func newTestClientWithStore(t *testing.T, m *MockServer, store cache.Cache, mutate ...func(*Options)) *Client {
	t.Helper()
	nop := zerolog.Nop()
	opts := Options{
		EMACBaseURL:   m.EMACBaseURL(),
		PlayerBaseURL: m.PlayerBaseURL(),
		Timeout:       2 * time.Second,
		RateLimit:     -1,
		Logger:        &nop,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	return New(store, opts)
}

func fixtureItem(id string) FixtureItem {
	return FixtureItem{
		ProgramID:        id,
		Title:            "Title " + id,
		ShortDescription: "About " + id,
		Image:            "https://api-cdn.arte.tv/img/v2/image/" + id + "/__SIZE__",
		Duration:         3000,
		DurationLabel:    "50 min",
	}
}

func fixtureItems(ids ...string) []FixtureItem {
	return lo.Map(ids, func(id string, _ int) FixtureItem { return fixtureItem(id) })
}

func programIDs(vs []VideoSummary) []string {
	return lo.Map(vs, func(v VideoSummary, _ int) string { return v.ProgramID })
}

func boolPtr(b bool) *bool { return &b }
