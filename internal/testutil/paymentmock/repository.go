package paymentmock

import (
	"context"
	"errors"

	domain "coop-loan-service/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("paymentmock: method not implemented")

type Repo struct {
	CreateBatchFn             func(ctx context.Context, ps []domain.Payment) error
	GetByPaymentIDFn          func(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetByPaymentIDForUpdateFn func(ctx context.Context, paymentID string) (*domain.Payment, error)
	SaveFn                    func(ctx context.Context, p *domain.Payment) error
	ListByLoanFn              func(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error)
	CountPendingByLoanFn      func(ctx context.Context, loanNumericID uint64) (int64, error)
}

func (m *Repo) CreateBatch(ctx context.Context, ps []domain.Payment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, ps)
	}
	return errUnimplemented
}

func (m *Repo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDForUpdateFn != nil {
		return m.GetByPaymentIDForUpdateFn(ctx, paymentID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return errUnimplemented
}

func (m *Repo) ListByLoan(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanNumericID)
	}
	return nil, errUnimplemented
}

func (m *Repo) CountPendingByLoan(ctx context.Context, loanNumericID uint64) (int64, error) {
	if m.CountPendingByLoanFn != nil {
		return m.CountPendingByLoanFn(ctx, loanNumericID)
	}
	return 0, errUnimplemented
}
