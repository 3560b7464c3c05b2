package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row; only valid inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	List(ctx context.Context, status Status) ([]Loan, error)
	// ListByApplicant returns the applicant's loans across all states.
	// Applicant name is the join key; there is no separate applicant entity.
	ListByApplicant(ctx context.Context, applicantName string) ([]Loan, error)
	// NextLoanNumber returns max(loan_number)+1. Monotonic and gap-tolerant:
	// soft-deleted loans keep their number, so numbers are never reused.
	NextLoanNumber(ctx context.Context) (uint64, error)
	Delete(ctx context.Context, l *Loan, deletedBy string) error
}
