package loanmock

import (
	"context"
	"errors"

	domain "coop-loan-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock satisfying loan.Repository. Fill in the
// fields a test needs; unfilled ones fail loudly.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	ListFn                 func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListByApplicantFn      func(ctx context.Context, applicantName string) ([]domain.Loan, error)
	NextLoanNumberFn       func(ctx context.Context) (uint64, error)
	DeleteFn               func(ctx context.Context, l *domain.Loan, deletedBy string) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return errUnimplemented
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return errUnimplemented
}

func (m *Repo) List(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByApplicant(ctx context.Context, applicantName string) ([]domain.Loan, error) {
	if m.ListByApplicantFn != nil {
		return m.ListByApplicantFn(ctx, applicantName)
	}
	return nil, errUnimplemented
}

func (m *Repo) NextLoanNumber(ctx context.Context) (uint64, error) {
	if m.NextLoanNumberFn != nil {
		return m.NextLoanNumberFn(ctx)
	}
	return 0, errUnimplemented
}

func (m *Repo) Delete(ctx context.Context, l *domain.Loan, deletedBy string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, l, deletedBy)
	}
	return errUnimplemented
}
