package uow

import (
	"context"

	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/domain/settings"
	"coop-loan-service/internal/domain/user"
)

type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
	Settings settings.Repository
	Users    user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
