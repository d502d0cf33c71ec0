// Package freshness decides whether cached place data is still trustworthy.
package freshness

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is the window during which a synced record is trusted without
// consulting the provider again.
const DefaultTTL = 7 * 24 * time.Hour

// Policy decides whether a sync timestamp is within the TTL window.
// Only records sourced from the provider are subject to the policy;
// manually created records are trusted unconditionally by callers.
type Policy struct {
	ttl   time.Duration
	clock clockwork.Clock
}

// NewPolicy creates a freshness policy with the given TTL.
// A non-positive TTL falls back to DefaultTTL.
func NewPolicy(ttl time.Duration) *Policy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Policy{
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
	}
}

// WithClock replaces the wall clock, for tests.
func (p *Policy) WithClock(clock clockwork.Clock) *Policy {
	p.clock = clock
	return p
}

// TTL returns the configured time-to-live window.
func (p *Policy) TTL() time.Duration {
	return p.ttl
}

// IsFresh reports whether data synced at lastSyncedAt is still within the
// TTL window. A nil timestamp means the record was never synced and is
// always considered stale.
func (p *Policy) IsFresh(lastSyncedAt *time.Time) bool {
	if lastSyncedAt == nil {
		return false
	}
	return p.clock.Since(*lastSyncedAt) < p.ttl
}
