// Package place defines the cached place record and the normalized shape
// of provider lookup results.
package place

import (
	"encoding/json"
	"time"

	"github.com/tablenote/place-cache/pkg/taxonomy"
)

// Source identifies where a place record originated.
type Source string

const (
	// SourceManual marks records entered by hand. Manual records are
	// trusted unconditionally and never refreshed from the provider.
	SourceManual Source = "manual"

	// SourceExternal marks records synced from the geographic-data
	// provider. Only external records are subject to the freshness TTL.
	SourceExternal Source = "external"
)

// Coordinates is a latitude/longitude pair.
//
// The JSON encoding duplicates the pair under both the short (lat/lng) and
// long (latitude/longitude) field names. Older readers consume the long
// form while newer ones use the short form; both must keep round-tripping
// until the legacy readers are retired.
type Coordinates struct {
	Lat float64
	Lng float64
}

type coordinatesJSON struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalJSON emits the dual legacy encoding.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinatesJSON{
		Lat:       c.Lat,
		Lng:       c.Lng,
		Latitude:  c.Lat,
		Longitude: c.Lng,
	})
}

// UnmarshalJSON accepts either encoding, preferring the short form.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Lat != nil && raw.Lng != nil {
		c.Lat = *raw.Lat
		c.Lng = *raw.Lng
		return nil
	}
	c.Lat = raw.Latitude
	c.Lng = raw.Longitude
	return nil
}

// Place is one cached place record.
type Place struct {
	// ID is assigned by the store on insert and never changes.
	ID string `json:"id"`

	// ExternalID is the provider-assigned identifier. Empty for manually
	// created records; unique across the store when present.
	ExternalID string `json:"external_id,omitempty"`

	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`

	// Category is the normalized classification; CategorySet is the set
	// backing it, kept for future multi-category support.
	Category    taxonomy.Category   `json:"category"`
	CategorySet []taxonomy.Category `json:"category_set,omitempty"`

	Coordinates *Coordinates `json:"coordinates,omitempty"`

	Source Source `json:"source"`

	// LastSyncedAt is nil until the record has been synced from the
	// provider at least once.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	// PhotoReference is an opaque provider token for the primary photo.
	PhotoReference string `json:"photo_reference,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing mutable state.
func (p *Place) Clone() *Place {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Coordinates != nil {
		coords := *p.Coordinates
		cp.Coordinates = &coords
	}
	if p.LastSyncedAt != nil {
		ts := *p.LastSyncedAt
		cp.LastSyncedAt = &ts
	}
	if p.CategorySet != nil {
		cp.CategorySet = append([]taxonomy.Category(nil), p.CategorySet...)
	}
	return &cp
}

// ExternalRecord is the normalized result of one provider lookup.
type ExternalRecord struct {
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Phone            string       `json:"phone,omitempty"`
	CategoryTags     []string     `json:"category_tags"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	PhotoReferences  []string     `json:"photo_references,omitempty"`
}

// PrimaryPhoto returns the first photo reference, or "" when none exist.
func (r *ExternalRecord) PrimaryPhoto() string {
	if len(r.PhotoReferences) == 0 {
		return ""
	}
	return r.PhotoReferences[0]
}
