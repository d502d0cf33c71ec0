package placecache

import (
	"context"

	"github.com/tablenote/place-cache/pkg/place"
	"github.com/tablenote/place-cache/pkg/store"
)

// Snapshot is a point-in-time aggregate over the store.
type Snapshot struct {
	Total           int     `json:"total"`
	ExternalSourced int     `json:"external_sourced"`
	ManualSourced   int     `json:"manual_sourced"`
	HitRateEstimate float64 `json:"hit_rate_estimate"`
}

// Reporter produces read-only aggregates over the store for operational
// dashboards.
type Reporter struct {
	store store.Store
}

// NewReporter creates a stats reporter over a store.
func NewReporter(st store.Store) *Reporter {
	return &Reporter{store: st}
}

// Snapshot returns current aggregate counts.
//
// HitRateEstimate is the proportion of provider-sourced records in the
// store, not a hit/miss ratio over actual lookups. The name predates the
// metric and existing dashboards consume it as-is, so both the name and
// the computation are kept unchanged.
func (r *Reporter) Snapshot(ctx context.Context) (Snapshot, error) {
	stats, err := r.store.Stats(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Total:           stats.Total,
		ExternalSourced: stats.ExternalSourced,
		ManualSourced:   stats.ManualSourced,
	}
	if stats.Total > 0 {
		snap.HitRateEstimate = float64(stats.ExternalSourced) / float64(stats.Total)
	}

	recordsTotal.WithLabelValues(string(place.SourceExternal)).Set(float64(stats.ExternalSourced))
	recordsTotal.WithLabelValues(string(place.SourceManual)).Set(float64(stats.ManualSourced))

	return snap, nil
}
