package settingsmock

import (
	"context"

	"gorm.io/gorm"

	domain "coop-loan-service/internal/domain/settings"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetFn    func(ctx context.Context) (*domain.PenaltySettings, error)
	UpsertFn func(ctx context.Context, s *domain.PenaltySettings) error
}

// Get falls back to "not configured" so tests exercising the default
// settings path need no setup at all.
func (m *Repo) Get(ctx context.Context) (*domain.PenaltySettings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Upsert(ctx context.Context, s *domain.PenaltySettings) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, s)
	}
	return nil
}
