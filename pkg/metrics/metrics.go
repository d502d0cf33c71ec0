// Package metrics provides centralized Prometheus metrics registry for the
// place cache. All metrics are defined in their respective packages
// (placecache, provider, store) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the place cache.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Coordinator Metrics (pkg/placecache):
//   - place_cache_hits_total (Counter): Lookups served from the store without a provider call
//   - place_cache_misses_total (Counter): Lookups that consulted the provider
//   - place_cache_stale_served_total (Counter): Degraded-mode fallbacks to a stale record
//   - place_cache_write_failures_total (Counter): Write-backs that failed after a successful fetch
//   - place_cache_provider_failures_total{class} (Counter): Provider failures seen by the coordinator
//   - place_cache_refreshes_total{outcome} (Counter): Background refresh attempts by outcome
//   - place_cache_records{source} (Gauge): Stored records by source, from the last stats snapshot
//
// Provider Metrics (pkg/provider):
//   - place_provider_requests_total{status} (Counter): Provider lookups by HTTP status
//   - place_provider_request_duration_seconds (Histogram): Provider lookup duration
//   - place_provider_errors_total{class} (Counter): Provider errors by class (client, server, network)
//
// Store Metrics (pkg/store):
//   - place_store_reads_total{outcome} (Counter): Point reads by outcome (found, not_found)
//   - place_store_writes_total{operation} (Counter): Writes by operation (insert, update)
//   - place_store_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate (request level)
//   sum(rate(place_cache_hits_total[5m])) /
//   (sum(rate(place_cache_hits_total[5m])) + sum(rate(place_cache_misses_total[5m])))
//
//   # Degraded-Mode Rate
//   rate(place_cache_stale_served_total[5m])
//
//   # Provider Error Rate
//   rate(place_provider_errors_total[5m])
//
//   # P95 Provider Latency
//   histogram_quantile(0.95, rate(place_provider_request_duration_seconds_bucket[5m]))
