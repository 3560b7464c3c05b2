package payment

import "context"

type Repository interface {
	// CreateBatch inserts a full schedule; callers run it inside the same
	// transaction that marks the loan released.
	CreateBatch(ctx context.Context, ps []Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	// ListByLoan returns the loan's installments ordered by payment_number.
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Payment, error)
	CountPendingByLoan(ctx context.Context, loanNumericID uint64) (int64, error)
}
