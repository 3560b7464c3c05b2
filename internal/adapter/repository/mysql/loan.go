package mysql

import (
	"context"

	loanDomain "coop-loan-service/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	q := r.db.WithContext(ctx)
	// SQLite (tests) has no row locks; the clause is MySQL-only.
	if q.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := q.Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) List(ctx context.Context, status loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	res := q.Order("loan_number DESC").Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByApplicant(ctx context.Context, applicantName string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("applicant_name = ?", applicantName).
		Order("loan_number ASC").
		Find(&out)
	return out, res.Error
}

// NextLoanNumber includes soft-deleted rows so a deleted loan's number is
// never handed out again.
func (r *LoanRepository) NextLoanNumber(ctx context.Context) (uint64, error) {
	var max uint64
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Unscoped().
		Select("COALESCE(MAX(loan_number), 0)").
		Scan(&max)
	if res.Error != nil {
		return 0, res.Error
	}
	return max + 1, nil
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan, deletedBy string) error {
	if err := r.db.WithContext(ctx).
		Model(l).
		UpdateColumn("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(l).Error
}
