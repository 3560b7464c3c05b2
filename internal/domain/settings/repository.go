package settings

import (
	"context"
	"log"
)

type Repository interface {
	// Get returns the singleton row, or gorm.ErrRecordNotFound when unset.
	Get(ctx context.Context) (*PenaltySettings, error)
	Upsert(ctx context.Context, s *PenaltySettings) error
}

// LoadOrDefault reads the singleton and falls back to the documented
// defaults when it is unset or unreadable. Penalty computation must never
// block on configuration.
func LoadOrDefault(ctx context.Context, r Repository) PenaltySettings {
	s, err := r.Get(ctx)
	if err != nil {
		log.Printf("settings: falling back to defaults: %v", err)
		return Default()
	}
	return *s
}
