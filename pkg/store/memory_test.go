package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tablenote/place-cache/pkg/place"
	"github.com/tablenote/place-cache/pkg/taxonomy"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newPlace(externalID string) *place.Place {
	return &place.Place{
		ExternalID: externalID,
		Name:       "Test Place",
		Address:    "1 Test Street",
		Category:   taxonomy.CategoryRestaurant,
		Source:     place.SourceExternal,
	}
}

func (s *MemoryStoreSuite) TestInsertAndFind() {
	s.Run("insert assigns id and audit timestamps", func() {
		stored, err := s.store.Insert(s.ctx, s.newPlace("ext-1"))
		s.Require().NoError(err)
		s.NotEmpty(stored.ID)
		s.False(stored.CreatedAt.IsZero())
		s.Equal(stored.CreatedAt, stored.UpdatedAt)
	})

	s.Run("finds record by external id", func() {
		stored, err := s.store.Insert(s.ctx, s.newPlace("ext-2"))
		s.Require().NoError(err)

		found, err := s.store.FindByExternalID(s.ctx, "ext-2")
		s.Require().NoError(err)
		s.Equal(stored.ID, found.ID)
		s.Equal("Test Place", found.Name)
	})

	s.Run("returns ErrNotFound for unknown external id", func() {
		_, err := s.store.FindByExternalID(s.ctx, "ext-unknown")
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestInsertDuplicateExternalID() {
	_, err := s.store.Insert(s.ctx, s.newPlace("ext-dup"))
	s.Require().NoError(err)

	_, err = s.store.Insert(s.ctx, s.newPlace("ext-dup"))
	s.Require().ErrorIs(err, ErrDuplicateExternalID)

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.Total)
}

func (s *MemoryStoreSuite) TestInsertManualWithoutExternalID() {
	manual := &place.Place{
		Name:   "Hand Entered",
		Source: place.SourceManual,
	}

	first, err := s.store.Insert(s.ctx, manual)
	s.Require().NoError(err)

	// A second id-less record is a distinct place, not a duplicate.
	second, err := s.store.Insert(s.ctx, manual)
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
}

func (s *MemoryStoreSuite) TestUpdateByID() {
	stored, err := s.store.Insert(s.ctx, s.newPlace("ext-upd"))
	s.Require().NoError(err)

	syncedAt := time.Now()
	updated, err := s.store.UpdateByID(s.ctx, stored.ID, Update{
		Name:         "Renamed Place",
		Address:      "2 New Street",
		Category:     taxonomy.CategoryItalian,
		CategorySet:  []taxonomy.Category{taxonomy.CategoryItalian},
		Coordinates:  &place.Coordinates{Lat: 1.5, Lng: 2.5},
		LastSyncedAt: syncedAt,
		Source:       place.SourceExternal,
	})
	s.Require().NoError(err)

	s.Equal(stored.ID, updated.ID)
	s.Equal("Renamed Place", updated.Name)
	s.Equal(taxonomy.CategoryItalian, updated.Category)
	s.Require().NotNil(updated.LastSyncedAt)
	s.WithinDuration(syncedAt, *updated.LastSyncedAt, time.Second)
	s.Equal(stored.CreatedAt, updated.CreatedAt)
	s.True(updated.UpdatedAt.After(stored.UpdatedAt) || updated.UpdatedAt.Equal(stored.UpdatedAt))

	s.Run("update of unknown id fails", func() {
		_, err := s.store.UpdateByID(s.ctx, "missing-id", Update{})
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestFindReturnsCopy() {
	_, err := s.store.Insert(s.ctx, s.newPlace("ext-copy"))
	s.Require().NoError(err)

	found, err := s.store.FindByExternalID(s.ctx, "ext-copy")
	s.Require().NoError(err)
	found.Name = "mutated"

	again, err := s.store.FindByExternalID(s.ctx, "ext-copy")
	s.Require().NoError(err)
	s.Equal("Test Place", again.Name)
}

func (s *MemoryStoreSuite) TestStats() {
	for i := 0; i < 7; i++ {
		p := s.newPlace("")
		p.ExternalID = "ext-stat-" + string(rune('a'+i))
		_, err := s.store.Insert(s.ctx, p)
		s.Require().NoError(err)
	}
	for i := 0; i < 3; i++ {
		_, err := s.store.Insert(s.ctx, &place.Place{Name: "Manual", Source: place.SourceManual})
		s.Require().NoError(err)
	}

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(10, stats.Total)
	s.Equal(7, stats.ExternalSourced)
	s.Equal(3, stats.ManualSourced)
}
