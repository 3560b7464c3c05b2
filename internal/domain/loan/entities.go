package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusReleased  Status = "released"
	StatusFullyPaid Status = "fully-paid"
)

type Type string

const (
	TypeCashAdvance  Type = "Cash Advance"
	TypeMultiPurpose Type = "Multi-Purpose"
	TypeEmergency    Type = "Emergency"
)

type Purpose string

const (
	PurposeBusinessCapital Purpose = "Business Capital"
	PurposeBillsPayment    Purpose = "Bills Payment"
	PurposeTuitionFee      Purpose = "Tuition Fee"
	PurposeHouseRenovation Purpose = "House Renovation"
	PurposeMedicalExpenses Purpose = "Medical Expenses"
	PurposeTravelExpenses  Purpose = "Travel Expenses"
)

// AllowedTerms is the fixed set of payment terms (months) an application may use.
var AllowedTerms = []int{1, 3, 4, 6, 9, 12, 18, 24}

func TermAllowed(term int) bool {
	for _, t := range AllowedTerms {
		if t == term {
			return true
		}
	}
	return false
}

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidLoanTerms  = errors.New("invalid loan terms")
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrPrerequisiteNotMet is always wrapped with the name of the unmet check.
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
	ErrRoleNotAllowed     = errors.New("role not allowed")
	ErrRemarksRequired    = errors.New("denial remarks required")
	// ErrConflict means a concurrent writer invalidated the expected prior
	// state; the caller should reread and retry.
	ErrConflict = errors.New("conflicting concurrent update")
)

type Loan struct {
	ID            uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string  `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	LoanNumber    uint64  `gorm:"column:loan_number;index:idx_loans_loan_number" json:"loan_number"`
	ApplicantName string  `gorm:"size:255;index:idx_loans_applicant" json:"applicant_name"`
	Amount        float64 `gorm:"type:decimal(18,2)" json:"amount"`
	Salary        float64 `gorm:"type:decimal(18,2)" json:"salary"`
	PaymentTerm   int     `gorm:"column:payment_term" json:"payment_term"`
	LoanType      Type    `gorm:"size:32;column:loan_type" json:"loan_type"`
	Purpose       Purpose `gorm:"size:32" json:"purpose"`
	Remarks       string  `gorm:"type:text" json:"remarks,omitempty"`

	Status            Status `gorm:"type:enum('pending','approved','denied','released','fully-paid');default:'pending'" json:"status"`
	BookkeeperChecked bool   `gorm:"column:bookkeeper_checked" json:"bookkeeper_checked"`
	PayrollChecked    bool   `gorm:"column:payroll_checked" json:"payroll_checked"`
	DenialRemarks     string `gorm:"type:text" json:"denial_remarks,omitempty"`

	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	ReleasedAt *time.Time     `gorm:"column:released_at" json:"released_at,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy  string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Terminal reports whether no further transition can leave this status.
func (s Status) Terminal() bool {
	return s == StatusDenied || s == StatusFullyPaid
}
