package loan

import "time"

type CreateLoanInput struct {
	ApplicantName string  `json:"applicant_name"`
	Amount        float64 `json:"amount"`
	PaymentTerm   int     `json:"payment_term"`
	LoanType      string  `json:"loan_type"`
	Purpose       string  `json:"purpose"`
	Remarks       string  `json:"remarks"`
}

type UpdateLoanInput struct {
	Amount      *float64 `json:"amount"`
	PaymentTerm *int     `json:"payment_term"`
	LoanType    *string  `json:"loan_type"`
	Purpose     *string  `json:"purpose"`
	Remarks     *string  `json:"remarks"`
}

type LoanDTO struct {
	LoanID            string     `json:"loan_id"`
	LoanNumber        uint64     `json:"loan_number"`
	ApplicantName     string     `json:"applicant_name"`
	Amount            float64    `json:"amount"`
	Salary            float64    `json:"salary"`
	PaymentTerm       int        `json:"payment_term"`
	LoanType          string     `json:"loan_type"`
	Purpose           string     `json:"purpose"`
	Remarks           string     `json:"remarks,omitempty"`
	Status            string     `json:"status"`
	BookkeeperChecked bool       `json:"bookkeeper_checked"`
	PayrollChecked    bool       `json:"payroll_checked"`
	DenialRemarks     string     `json:"denial_remarks,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
}
