package uowmock

import (
	"context"

	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

// UoW runs transaction callbacks synchronously against the repos it is
// configured with. LoadLoanFn stands in for the FOR UPDATE row lock.
type UoW struct {
	Repos      uow.Repos
	LoadLoanFn func(ctx context.Context, loanID string) (*loan.Loan, error)

	// BeforeFn, when set, runs before each callback; returning an error
	// simulates a transaction that failed to begin.
	BeforeFn func() error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.BeforeFn != nil {
		if err := m.BeforeFn(); err != nil {
			return err
		}
	}
	return fn(m.Repos)
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.BeforeFn != nil {
		if err := m.BeforeFn(); err != nil {
			return err
		}
	}
	var (
		l   *loan.Loan
		err error
	)
	if m.LoadLoanFn != nil {
		l, err = m.LoadLoanFn(ctx, loanID)
	} else {
		l, err = m.Repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
	}
	if err != nil {
		return err
	}
	return fn(m.Repos, l)
}
