package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tablenote/place-cache/pkg/place"
)

// Memory is an in-process Store backed by maps. It is used by unit tests
// and by single-process deployments that do not need shared state.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*place.Place // id -> record
	byExt   map[string]string       // externalID -> id
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]*place.Place),
		byExt:   make(map[string]string),
	}
}

// FindByExternalID returns the record for an external id, or ErrNotFound.
func (s *Memory) FindByExternalID(ctx context.Context, externalID string) (*place.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byExt[externalID]
	if !ok {
		StoreReads.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	StoreReads.WithLabelValues("found").Inc()
	return s.records[id].Clone(), nil
}

// Insert stores a new record, assigning its ID. The external-id index
// entry is claimed under the same lock, so racing inserts for one
// external id leave exactly one record.
func (s *Memory) Insert(ctx context.Context, p *place.Place) (*place.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ExternalID != "" {
		if _, exists := s.byExt[p.ExternalID]; exists {
			StoreErrors.WithLabelValues("insert").Inc()
			return nil, ErrDuplicateExternalID
		}
	}

	now := time.Now()
	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.records[stored.ID] = stored
	if stored.ExternalID != "" {
		s.byExt[stored.ExternalID] = stored.ID
	}

	StoreWrites.WithLabelValues("insert").Inc()
	return stored.Clone(), nil
}

// UpdateByID applies a provider write-back to an existing record.
func (s *Memory) UpdateByID(ctx context.Context, id string, upd Update) (*place.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		StoreErrors.WithLabelValues("update").Inc()
		return nil, ErrNotFound
	}

	applyUpdate(rec, upd, time.Now())
	StoreWrites.WithLabelValues("update").Inc()
	return rec.Clone(), nil
}

// Stats returns aggregate counts over all records.
func (s *Memory) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.records)}
	for _, rec := range s.records {
		switch rec.Source {
		case place.SourceExternal:
			stats.ExternalSourced++
		case place.SourceManual:
			stats.ManualSourced++
		}
	}
	return stats, nil
}
