// Package placecache reconciles persisted place records with a
// third-party geographic-data provider.
//
// The coordinator implements cache-aside lookup with the following
// behavior:
//
// - Fresh cached records are served without a provider call
// - Stale or unseen records trigger exactly one provider attempt
// - Successful fetches are normalized and written back to the store
// - Provider failures fall back to the stale record (degraded mode)
// - A cold miss with a failing provider yields no record, never an error
//
// # Basic Usage
//
//	st := store.NewRedis(redisClient)
//
//	coord, err := placecache.New(placecache.Config{Store: st})
//	if err != nil {
//		return err
//	}
//
//	rec, err := coord.FetchOrCache(ctx, "ext-abc123", adapter)
//	if rec == nil {
//		// Unknown to both cache and provider - offer manual entry
//	}
//
// # Background Refresh
//
//	refresher := placecache.NewRefresher(coord)
//
//	// List rendering fires refreshes for stale records without waiting.
//	for _, rec := range loaded {
//		if rec.Source == place.SourceExternal && !policy.IsFresh(rec.LastSyncedAt) {
//			refresher.Refresh(rec.ID, rec.ExternalID, adapter)
//		}
//	}
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - place_cache_hits_total - Fresh records served from the store
//   - place_cache_misses_total - Lookups that consulted the provider
//   - place_cache_stale_served_total - Degraded-mode fallbacks
//   - place_cache_write_failures_total - Write-backs that failed
//   - place_cache_provider_failures_total{class} - Provider failures
//   - place_cache_refreshes_total{outcome} - Background refresh outcomes
package placecache
