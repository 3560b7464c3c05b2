package payment

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrPenaltyFlagConflict: a penalty may be waived or deferred, never both.
	ErrPenaltyFlagConflict = errors.New("penalty already waived or deferred")
)

// Payment is one installment, owned by exactly one loan. Rows are created
// in a single batch when the loan is released and never otherwise.
type Payment struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string `gorm:"size:32;uniqueIndex:ux_payments_payment_id_active" json:"payment_id"`
	// Numeric FK to loans.id.
	LoanID        uint64 `gorm:"column:loan_id;not null;index:idx_payments_loan;uniqueIndex:ux_payments_loan_number" json:"-"`
	PaymentNumber int    `gorm:"column:payment_number;not null;uniqueIndex:ux_payments_loan_number" json:"payment_number"`

	DueDate time.Time `gorm:"column:due_date;not null" json:"due_date"`
	// Amount = principal component + that period's interest.
	Amount    float64 `gorm:"type:decimal(18,2)" json:"amount"`
	Principal float64 `gorm:"type:decimal(18,2)" json:"principal"`
	Interest  float64 `gorm:"type:decimal(18,2)" json:"interest"`

	Status      Status     `gorm:"type:enum('pending','paid');default:'pending'" json:"status"`
	PaymentDate *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	AmountPaid  float64    `gorm:"type:decimal(18,2)" json:"amount_paid"`

	PenaltyWaived   bool `gorm:"column:penalty_waived" json:"penalty_waived"`
	PenaltyDeferred bool `gorm:"column:penalty_deferred" json:"penalty_deferred"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }
