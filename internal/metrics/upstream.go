// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream endpoint labels.
const (
	EndpointPage       = "page"
	EndpointZone       = "zone"
	EndpointCollection = "collection"
	EndpointConfig     = "config"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arteloo_upstream_requests_total",
		Help: "Upstream API requests by endpoint and result",
	}, []string{
		"endpoint", // page|zone|collection|config
		"result",   // ok|not_found|forbidden|server_error|bad_response|unavailable|timeout|circuit_open
	})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arteloo_upstream_request_duration_seconds",
		Help:    "Upstream API request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"endpoint"})

	zonePagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arteloo_catalog_zone_pages_failed_total",
		Help: "Continuation pages skipped because the upstream fetch failed",
	})

	streamSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arteloo_stream_selection_total",
		Help: "Stream selections by selector and winning rule",
	}, []string{"selector", "rule"})
)

// ObserveUpstream records the outcome and latency of one upstream request.
func ObserveUpstream(endpoint, result string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(endpoint, result).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncZonePageFailed counts a skipped continuation page.
func IncZonePageFailed() {
	zonePagesFailed.Inc()
}

// IncStreamSelection counts which rule selected a stream.
func IncStreamSelection(selector, rule string) {
	streamSelections.WithLabelValues(selector, rule).Inc()
}
