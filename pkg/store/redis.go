package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tablenote/place-cache/pkg/place"
)

const (
	recordKeyPrefix = "place:id:"
	extKeyPrefix    = "place:ext:"
)

// Redis is a Store backed by Redis. Records are stored as JSON under
// place:id:<id>, with place:ext:<externalID> holding the id index.
// Records carry no TTL; staleness is a read-time decision made by the
// freshness policy, never an eviction.
type Redis struct {
	redis *redis.Client
}

// NewRedis creates a Redis-backed store.
func NewRedis(redisClient *redis.Client) *Redis {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Redis{redis: redisClient}
}

// FindByExternalID returns the record for an external id, or ErrNotFound.
func (s *Redis) FindByExternalID(ctx context.Context, externalID string) (*place.Place, error) {
	id, err := s.redis.Get(ctx, extKeyPrefix+externalID).Result()
	if err != nil {
		if err == redis.Nil {
			StoreReads.WithLabelValues("not_found").Inc()
			return nil, ErrNotFound
		}
		StoreErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("redis get index: %w", err)
	}

	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	StoreReads.WithLabelValues("found").Inc()
	return rec, nil
}

// Insert stores a new record, assigning its ID. The external-id index is
// claimed with SETNX, so racing inserts for one external id leave exactly
// one record; the loser gets ErrDuplicateExternalID.
func (s *Redis) Insert(ctx context.Context, p *place.Place) (*place.Place, error) {
	now := time.Now()
	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if stored.ExternalID != "" {
		claimed, err := s.redis.SetNX(ctx, extKeyPrefix+stored.ExternalID, stored.ID, 0).Result()
		if err != nil {
			StoreErrors.WithLabelValues("insert").Inc()
			return nil, fmt.Errorf("redis setnx index: %w", err)
		}
		if !claimed {
			return nil, ErrDuplicateExternalID
		}
	}

	if err := s.setRecord(ctx, stored); err != nil {
		StoreErrors.WithLabelValues("insert").Inc()
		return nil, err
	}

	StoreWrites.WithLabelValues("insert").Inc()
	return stored, nil
}

// UpdateByID applies a provider write-back to an existing record.
func (s *Redis) UpdateByID(ctx context.Context, id string, upd Update) (*place.Place, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(rec, upd, time.Now())

	if err := s.setRecord(ctx, rec); err != nil {
		StoreErrors.WithLabelValues("update").Inc()
		return nil, err
	}

	StoreWrites.WithLabelValues("update").Inc()
	return rec, nil
}

// Stats scans all records and returns aggregate counts.
func (s *Redis) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	iter := s.redis.Scan(ctx, 0, recordKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.redis.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			StoreErrors.WithLabelValues("stats").Inc()
			return Stats{}, fmt.Errorf("redis get record: %w", err)
		}

		var rec place.Place
		if err := json.Unmarshal(data, &rec); err != nil {
			StoreErrors.WithLabelValues("stats").Inc()
			return Stats{}, fmt.Errorf("unmarshal record: %w", err)
		}

		stats.Total++
		switch rec.Source {
		case place.SourceExternal:
			stats.ExternalSourced++
		case place.SourceManual:
			stats.ManualSourced++
		}
	}
	if err := iter.Err(); err != nil {
		StoreErrors.WithLabelValues("stats").Inc()
		return Stats{}, fmt.Errorf("redis scan: %w", err)
	}

	return stats, nil
}

func (s *Redis) getRecord(ctx context.Context, id string) (*place.Place, error) {
	data, err := s.redis.Get(ctx, recordKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		StoreErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("redis get record: %w", err)
	}

	var rec place.Place
	if err := json.Unmarshal(data, &rec); err != nil {
		StoreErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

func (s *Redis) setRecord(ctx context.Context, rec *place.Place) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.redis.Set(ctx, recordKeyPrefix+rec.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set record: %w", err)
	}
	return nil
}
