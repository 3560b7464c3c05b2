package workflow

import "time"

// Transition names accepted by RequestTransition.
type Transition string

const (
	TransitionApprove Transition = "approve"
	TransitionDeny    Transition = "deny"
	TransitionRelease Transition = "release"
)

// Payload carries transition-specific arguments; today only deny uses it.
type Payload struct {
	Remarks string `json:"remarks,omitempty"`
}

type LoanResult struct {
	LoanID     string     `json:"loan_id"`
	Status     string     `json:"status"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	// Payments is set on release: the number of schedule records created.
	Payments int `json:"payments,omitempty"`
}

type PaymentResult struct {
	PaymentID   string     `json:"payment_id"`
	Status      string     `json:"status"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	// LoanFullyPaid is true when this update completed the loan.
	LoanFullyPaid bool `json:"loan_fully_paid"`
}

// InstallmentDTO is one schedule row with its penalty evaluated fresh
// against "now".
type InstallmentDTO struct {
	PaymentID       string     `json:"payment_id"`
	PaymentNumber   int        `json:"payment_number"`
	DueDate         time.Time  `json:"due_date"`
	Amount          float64    `json:"amount"`
	Principal       float64    `json:"principal"`
	Interest        float64    `json:"interest"`
	Status          string     `json:"status"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`
	AmountPaid      float64    `json:"amount_paid,omitempty"`
	Penalty         float64    `json:"penalty"`
	PenaltyWaived   bool       `json:"penalty_waived"`
	PenaltyDeferred bool       `json:"penalty_deferred"`
	Late            bool       `json:"late"`
	Overdue         bool       `json:"overdue"`
}

type PastDueItem struct {
	LoanID        string    `json:"loan_id"`
	ApplicantName string    `json:"applicant_name"`
	PaymentID     string    `json:"payment_id"`
	PaymentNumber int       `json:"payment_number"`
	DueDate       time.Time `json:"due_date"`
	DaysOverdue   int       `json:"days_overdue"`
	Amount        float64   `json:"amount"`
}

type PenaltyItem struct {
	LoanID        string    `json:"loan_id"`
	ApplicantName string    `json:"applicant_name"`
	PaymentID     string    `json:"payment_id"`
	PaymentNumber int       `json:"payment_number"`
	DueDate       time.Time `json:"due_date"`
	PenaltyAmount float64   `json:"penalty_amount"`
}
