package settings

import "time"

// Defaults applied when the settings row is absent or unreadable.
const (
	DefaultPenaltyAmount   = 500.0
	DefaultGracePeriodDays = 3
)

// PenaltySettings is a process-wide singleton, mutable by admins only.
type PenaltySettings struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	PenaltyAmount   float64   `gorm:"type:decimal(18,2)" json:"penalty_amount"`
	GracePeriodDays int       `gorm:"column:grace_period_days" json:"grace_period_days"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	UpdatedBy       string    `gorm:"size:32" json:"updated_by"`
}

func (PenaltySettings) TableName() string { return "penalty_settings" }

func Default() PenaltySettings {
	return PenaltySettings{
		PenaltyAmount:   DefaultPenaltyAmount,
		GracePeriodDays: DefaultGracePeriodDays,
		UpdatedBy:       "system",
	}
}
