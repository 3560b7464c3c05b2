package mysql

import (
	"context"

	settingsDomain "coop-loan-service/internal/domain/settings"

	"gorm.io/gorm"
)

type SettingsRepository struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) *SettingsRepository { return &SettingsRepository{db: db} }

func (r *SettingsRepository) Get(ctx context.Context) (*settingsDomain.PenaltySettings, error) {
	var out settingsDomain.PenaltySettings
	res := r.db.WithContext(ctx).Order("id ASC").First(&out)
	return &out, res.Error
}

// Upsert keeps the table a singleton: the first write inserts, every later
// write updates the same row.
func (r *SettingsRepository) Upsert(ctx context.Context, s *settingsDomain.PenaltySettings) error {
	var existing settingsDomain.PenaltySettings
	err := r.db.WithContext(ctx).Order("id ASC").First(&existing).Error
	switch {
	case err == nil:
		s.ID = existing.ID
		return r.db.WithContext(ctx).Save(s).Error
	case err == gorm.ErrRecordNotFound:
		return r.db.WithContext(ctx).Create(s).Error
	default:
		return err
	}
}
