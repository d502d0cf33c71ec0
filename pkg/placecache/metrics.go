package placecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_cache_hits_total",
		Help: "Total lookups served from the store without a provider call",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_cache_misses_total",
		Help: "Total lookups that consulted the provider",
	})

	staleServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_cache_stale_served_total",
		Help: "Total degraded-mode fallbacks to a stale record",
	})

	writeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "place_cache_write_failures_total",
		Help: "Total write-backs that failed after a successful fetch",
	})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_cache_provider_failures_total",
		Help: "Total provider failures observed by the coordinator, by class",
	}, []string{"class"})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_cache_refreshes_total",
		Help: "Total background refresh attempts by outcome",
	}, []string{"outcome"})

	recordsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "place_cache_records",
		Help: "Stored place records by source, as of the last stats snapshot",
	}, []string{"source"})
)
