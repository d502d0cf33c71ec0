// Package store persists cached place records, keyed by the provider's
// external identifier.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tablenote/place-cache/pkg/place"
	"github.com/tablenote/place-cache/pkg/taxonomy"
)

var (
	// ErrNotFound indicates no record exists for the requested key.
	ErrNotFound = errors.New("place record not found")

	// ErrDuplicateExternalID indicates an insert lost the race against a
	// concurrent insert for the same external id. Callers recover by
	// re-reading and updating the winner's record.
	ErrDuplicateExternalID = errors.New("external id already cached")
)

// Update carries the provider-sourced fields written back after a
// successful fetch. The store applies every field; identity and creation
// audit fields are never touched.
type Update struct {
	Name           string
	Address        string
	Phone          string
	Category       taxonomy.Category
	CategorySet    []taxonomy.Category
	Coordinates    *place.Coordinates
	PhotoReference string
	LastSyncedAt   time.Time
	Source         place.Source
}

// Stats is the read-only aggregate consumed by the stats reporter.
type Stats struct {
	Total           int
	ExternalSourced int
	ManualSourced   int
}

// Store is the persistence contract for cached place records.
//
// Insert is conditional on the external id being absent: two racing
// inserts for one external id produce exactly one record, with the loser
// receiving ErrDuplicateExternalID. Beyond that single guarantee no
// cross-call atomicity is provided; callers must not assume a find
// followed by an insert is atomic.
type Store interface {
	// FindByExternalID returns the record for an external id, or
	// ErrNotFound.
	FindByExternalID(ctx context.Context, externalID string) (*place.Place, error)

	// Insert stores a new record and assigns its ID. Fails with
	// ErrDuplicateExternalID when the record's external id is already
	// indexed.
	Insert(ctx context.Context, p *place.Place) (*place.Place, error)

	// UpdateByID applies a provider write-back to an existing record.
	UpdateByID(ctx context.Context, id string, upd Update) (*place.Place, error)

	// Stats returns aggregate counts over all records.
	Stats(ctx context.Context) (Stats, error)
}

// applyUpdate merges a write-back into a record copy. Shared by the store
// implementations so both apply identical semantics.
func applyUpdate(p *place.Place, upd Update, now time.Time) {
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
	p.UpdatedAt = now
}
