package rediscache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"coop-loan-service/internal/domain/settings"
)

const settingsKey = "settings:penalty"

// SettingsRepository is a read-through cache in front of the MySQL singleton.
// Cache failures degrade to the inner repository, never to the caller.
type SettingsRepository struct {
	inner settings.Repository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewSettingsRepository(inner settings.Repository, rdb *redis.Client, ttl time.Duration) *SettingsRepository {
	return &SettingsRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.PenaltySettings, error) {
	if raw, err := r.rdb.Get(ctx, settingsKey).Bytes(); err == nil {
		var s settings.PenaltySettings
		if err := json.Unmarshal(raw, &s); err == nil {
			return &s, nil
		}
		// Corrupt entry: drop it and fall through to the database.
		r.rdb.Del(ctx, settingsKey)
	} else if err != redis.Nil {
		log.Printf("settings cache: read failed: %v", err)
	}

	s, err := r.inner.Get(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(s); err == nil {
		if err := r.rdb.Set(ctx, settingsKey, raw, r.ttl).Err(); err != nil {
			log.Printf("settings cache: write failed: %v", err)
		}
	}
	return s, nil
}

// Upsert writes through and invalidates so the next read sees the new row.
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.PenaltySettings) error {
	if err := r.inner.Upsert(ctx, s); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, settingsKey).Err(); err != nil {
		log.Printf("settings cache: invalidate failed: %v", err)
	}
	return nil
}
