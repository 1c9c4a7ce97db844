// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arteloo_cache_requests_total",
	Help: "Cache lookups by keyspace and result (hit|miss|error)",
}, []string{"keyspace", "result"})

// RecordCacheResult counts a cache lookup outcome.
func RecordCacheResult(keyspace, result string) {
	cacheRequests.WithLabelValues(keyspace, result).Inc()
}
