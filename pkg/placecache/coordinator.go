package placecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tablenote/place-cache/pkg/freshness"
	"github.com/tablenote/place-cache/pkg/place"
	"github.com/tablenote/place-cache/pkg/provider"
	"github.com/tablenote/place-cache/pkg/store"
	"github.com/tablenote/place-cache/pkg/taxonomy"
)

// Coordinator orchestrates lookup, freshness check, provider fetch,
// normalization, write-back and degraded-mode fallback.
type Coordinator struct {
	store  store.Store
	policy *freshness.Policy
	clock  clockwork.Clock
	logger zerolog.Logger
}

// Config holds the coordinator configuration.
type Config struct {
	// Store is the record persistence layer (required).
	Store store.Store

	// Policy decides staleness; defaults to the 7-day TTL policy.
	Policy *freshness.Policy

	// Clock supplies sync timestamps; defaults to the wall clock.
	Clock clockwork.Clock
}

// New creates a coordinator.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Policy == nil {
		cfg.Policy = freshness.NewPolicy(freshness.DefaultTTL)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &Coordinator{
		store:  cfg.Store,
		policy: cfg.Policy,
		clock:  cfg.Clock,
		logger: log.With().Str("component", "place-cache").Logger(),
	}, nil
}

// FetchOrCache returns the cached record for an external id, refreshing
// it from the provider when stale or unseen.
//
// The provider is never consulted for a fresh cached record. When the
// provider fails or reports not-found while a cached record exists, that
// record is returned unchanged regardless of its age. A nil record with a
// nil error means the place is unknown to both the cache and the
// provider; provider failures are never surfaced to the caller.
func (c *Coordinator) FetchOrCache(ctx context.Context, externalID string, adapter provider.Adapter) (*place.Place, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}
	if adapter == nil {
		return nil, fmt.Errorf("provider adapter is required")
	}

	existing, err := c.store.FindByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.logger.Warn().Err(err).Str("external_id", externalID).Msg("Store lookup failed, treating as miss")
		existing = nil
	}

	if existing != nil && c.trusted(existing) {
		cacheHits.Inc()
		c.logger.Debug().Str("external_id", externalID).Msg("Cache hit")
		return existing, nil
	}
	cacheMisses.Inc()

	rec, err := adapter.Fetch(ctx, externalID)
	if err != nil || rec == nil {
		if provider.IsUnavailable(err) {
			providerFailures.WithLabelValues(string(classOf(err))).Inc()
		}
		if existing != nil {
			// Degraded mode: serve the stale record rather than fail.
			staleServed.Inc()
			c.logger.Warn().
				Err(err).
				Str("external_id", externalID).
				Msg("Provider unavailable, serving stale record")
			return existing, nil
		}
		c.logger.Debug().Err(err).Str("external_id", externalID).Msg("Cold miss, no record available")
		return nil, nil
	}

	return c.writeBack(ctx, externalID, existing, rec), nil
}

// trusted reports whether a cached record can be served without a
// provider call. Manual records are trusted unconditionally; external
// records are subject to the freshness policy.
func (c *Coordinator) trusted(p *place.Place) bool {
	if p.Source == place.SourceManual {
		return true
	}
	return c.policy.IsFresh(p.LastSyncedAt)
}

// writeBack persists a successful fetch and returns the stored record.
// When persistence fails the freshly fetched data is returned anyway: the
// caller asked for current place data and has it, so a failed write-back
// costs only the next call's cache hit. The failure is logged and counted.
func (c *Coordinator) writeBack(ctx context.Context, externalID string, existing *place.Place, rec *place.ExternalRecord) *place.Place {
	upd := normalize(rec, c.clock.Now())

	if existing != nil {
		updated, err := c.store.UpdateByID(ctx, existing.ID, upd)
		if err != nil {
			writeFailures.Inc()
			c.logger.Warn().Err(err).Str("external_id", externalID).Msg("Write-back update failed, returning fetched data")
			return materialize(existing, externalID, upd)
		}
		c.logger.Debug().Str("external_id", externalID).Msg("Record refreshed")
		return updated
	}

	inserted, err := c.store.Insert(ctx, materialize(nil, externalID, upd))
	if err == nil {
		c.logger.Debug().Str("external_id", externalID).Msg("Record cached")
		return inserted
	}

	if errors.Is(err, store.ErrDuplicateExternalID) {
		// Lost the first-insert race; apply the write-back to the
		// winner's record instead.
		if winner, ferr := c.store.FindByExternalID(ctx, externalID); ferr == nil {
			if updated, uerr := c.store.UpdateByID(ctx, winner.ID, upd); uerr == nil {
				return updated
			}
		}
	}

	writeFailures.Inc()
	c.logger.Warn().Err(err).Str("external_id", externalID).Msg("Write-back insert failed, returning fetched data")
	return materialize(nil, externalID, upd)
}

// normalize converts a provider record into the write-back shape,
// classifying its tags into the internal taxonomy.
func normalize(rec *place.ExternalRecord, syncedAt time.Time) store.Update {
	category := taxonomy.Classify(rec.CategoryTags)

	var coords *place.Coordinates
	if rec.Coordinates != nil {
		c := *rec.Coordinates
		coords = &c
	}

	return store.Update{
		Name:           rec.Name,
		Address:        rec.FormattedAddress,
		Phone:          rec.Phone,
		Category:       category,
		CategorySet:    []taxonomy.Category{category},
		Coordinates:    coords,
		PhotoReference: rec.PrimaryPhoto(),
		LastSyncedAt:   syncedAt,
		Source:         place.SourceExternal,
	}
}

// materialize builds the in-memory record for a write-back, either on top
// of the existing record or from scratch for a first insert.
func materialize(existing *place.Place, externalID string, upd store.Update) *place.Place {
	p := existing.Clone()
	if p == nil {
		p = &place.Place{ExternalID: externalID}
	}

	p.Name = upd.Name
	p.Address = upd.Address
	p.Phone = upd.Phone
	p.Category = upd.Category
	p.CategorySet = upd.CategorySet
	p.Coordinates = upd.Coordinates
	p.PhotoReference = upd.PhotoReference
	syncedAt := upd.LastSyncedAt
	p.LastSyncedAt = &syncedAt
	p.Source = upd.Source
	return p
}

// classOf extracts the provider error class for metric labels.
func classOf(err error) provider.ErrorClass {
	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		return provErr.ErrorClass
	}
	return provider.ErrorClassNetwork
}
