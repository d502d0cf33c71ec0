package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreReads tracks point reads by outcome (found, not_found).
	StoreReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_store_reads_total",
			Help: "Total place store point reads by outcome",
		},
		[]string{"outcome"},
	)

	// StoreWrites tracks writes by operation (insert, update).
	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_store_writes_total",
			Help: "Total place store writes by operation",
		},
		[]string{"operation"},
	)

	// StoreErrors tracks operation errors.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_store_errors_total",
			Help: "Total place store operation errors",
		},
		[]string{"operation"},
	)
)
