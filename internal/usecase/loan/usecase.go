package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coop-loan-service/internal/amortization"
	"coop-loan-service/internal/compliance"
	domain "coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/domain/settings"
	"coop-loan-service/internal/domain/uow"
	"coop-loan-service/internal/domain/user"
	"coop-loan-service/internal/event"
	"coop-loan-service/internal/penalty"
	"coop-loan-service/pkg/id"
	"coop-loan-service/pkg/retry"
)

type Usecase struct {
	repo         domain.Repository
	paymentRepo  payment.Repository
	settingsRepo settings.Repository
	uow          uow.UnitOfWork
	bus          event.Bus
}

func NewUsecase(repo domain.Repository, payments payment.Repository, cfg settings.Repository, tx uow.UnitOfWork, bus event.Bus) *Usecase {
	return &Usecase{repo: repo, paymentRepo: payments, settingsRepo: cfg, uow: tx, bus: bus}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.ApplicantName == "" || in.Amount <= 0 || !domain.TermAllowed(in.PaymentTerm) {
		return nil, domain.ErrInvalidLoanTerms
	}
	if !validLoanType(in.LoanType) || !validPurpose(in.Purpose) {
		return nil, domain.ErrInvalidLoanTerms
	}

	l := &domain.Loan{
		LoanID:        id.NewID32(),
		ApplicantName: in.ApplicantName,
		Amount:        in.Amount,
		PaymentTerm:   in.PaymentTerm,
		LoanType:      domain.Type(in.LoanType),
		Purpose:       domain.Purpose(in.Purpose),
		Remarks:       in.Remarks,
		Status:        domain.StatusPending,
	}

	// Numbering and insert share a transaction so two concurrent creates
	// cannot claim the same human-facing number.
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		n, err := r.Loans.NextLoanNumber(ctx)
		if err != nil {
			return err
		}
		l.LoanNumber = n
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanCreated, LoanID: l.LoanID, At: time.Now().UTC()})
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var l *domain.Loan
	err := retry.Reads(ctx, func() error {
		var e error
		l, e = u.repo.GetByLoanID(ctx, loanID)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, status string) ([]LoanDTO, error) {
	var ls []domain.Loan
	err := retry.Reads(ctx, func() error {
		var e error
		ls, e = u.repo.List(ctx, domain.Status(status))
		return e
	})
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// Update edits the application terms. Only pending loans are editable, and
// only by a bookkeeper or admin.
func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateLoanInput, actor user.Actor) (*LoanDTO, error) {
	if !actor.Is(user.RoleBookkeeper, user.RoleAdmin) {
		return nil, domain.ErrRoleNotAllowed
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		if in.Amount != nil {
			if *in.Amount <= 0 {
				return domain.ErrInvalidLoanTerms
			}
			l.Amount = *in.Amount
		}
		if in.PaymentTerm != nil {
			if !domain.TermAllowed(*in.PaymentTerm) {
				return domain.ErrInvalidLoanTerms
			}
			l.PaymentTerm = *in.PaymentTerm
		}
		if in.LoanType != nil {
			if !validLoanType(*in.LoanType) {
				return domain.ErrInvalidLoanTerms
			}
			l.LoanType = domain.Type(*in.LoanType)
		}
		if in.Purpose != nil {
			if !validPurpose(*in.Purpose) {
				return domain.ErrInvalidLoanTerms
			}
			l.Purpose = domain.Purpose(*in.Purpose)
		}
		if in.Remarks != nil {
			l.Remarks = *in.Remarks
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanUpdated, LoanID: loanID, At: time.Now().UTC()})
	return dto, nil
}

func (u *Usecase) Delete(ctx context.Context, loanID string, actor user.Actor) error {
	if !actor.Is(user.RoleBookkeeper, user.RoleAdmin) {
		return domain.ErrRoleNotAllowed
	}
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		return r.Loans.Delete(ctx, l, actor.UserID)
	})
	if err != nil {
		return err
	}
	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanDeleted, LoanID: loanID, At: time.Now().UTC()})
	return nil
}

// SetSalary records the applicant's verified salary. A positive salary also
// flips the payroll checklist flag, which gates approval and denial.
func (u *Usecase) SetSalary(ctx context.Context, loanID string, salary float64, actor user.Actor) (*LoanDTO, error) {
	if !actor.Is(user.RolePayrollChecker, user.RoleAdmin) {
		return nil, domain.ErrRoleNotAllowed
	}
	if salary < 0 {
		return nil, fmt.Errorf("%w: salary must not be negative", domain.ErrInvalidLoanTerms)
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		l.Salary = salary
		l.PayrollChecked = salary > 0
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanUpdated, LoanID: loanID, At: time.Now().UTC()})
	return dto, nil
}

// Computation returns the amortization breakdown for a loan's current terms.
func (u *Usecase) Computation(ctx context.Context, loanID string) (*amortization.Computation, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return amortization.Calculate(l.Amount, l.PaymentTerm)
}

// Compliance aggregates the applicant's payment history across every loan
// except the one being evaluated.
func (u *Usecase) Compliance(ctx context.Context, applicantName, excludeLoanID string, now time.Time) (*compliance.Report, error) {
	ls, err := u.repo.ListByApplicant(ctx, applicantName)
	if err != nil {
		return nil, err
	}

	var history []payment.Payment
	for i := range ls {
		if ls[i].LoanID == excludeLoanID {
			continue
		}
		ps, err := u.paymentRepo.ListByLoan(ctx, ls[i].ID)
		if err != nil {
			return nil, err
		}
		history = append(history, ps...)
	}

	cfg := settings.LoadOrDefault(ctx, u.settingsRepo)
	r := compliance.Aggregate(history, now, penalty.SettingsFrom(cfg))
	return &r, nil
}

// ActiveLoanCount reports how many other approved or released loans the
// applicant carries. Shown to approvers before they act.
func (u *Usecase) ActiveLoanCount(ctx context.Context, applicantName, excludeLoanID string) (int, error) {
	ls, err := u.repo.ListByApplicant(ctx, applicantName)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range ls {
		if ls[i].LoanID == excludeLoanID {
			continue
		}
		if ls[i].Status == domain.StatusApproved || ls[i].Status == domain.StatusReleased {
			n++
		}
	}
	return n, nil
}

// DenialHistory summarizes the applicant's previously denied loans for the
// risk advisor prompt. Empty when there are none.
func (u *Usecase) DenialHistory(ctx context.Context, applicantName, excludeLoanID string) (string, error) {
	ls, err := u.repo.ListByApplicant(ctx, applicantName)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := range ls {
		if ls[i].LoanID == excludeLoanID || ls[i].Status != domain.StatusDenied {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "loan #%d denied: %s", ls[i].LoanNumber, ls[i].DenialRemarks)
	}
	return b.String(), nil
}

func validLoanType(s string) bool {
	switch domain.Type(s) {
	case domain.TypeCashAdvance, domain.TypeMultiPurpose, domain.TypeEmergency:
		return true
	}
	return false
}

func validPurpose(s string) bool {
	switch domain.Purpose(s) {
	case domain.PurposeBusinessCapital, domain.PurposeBillsPayment, domain.PurposeTuitionFee,
		domain.PurposeHouseRenovation, domain.PurposeMedicalExpenses, domain.PurposeTravelExpenses:
		return true
	}
	return false
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		LoanNumber:        l.LoanNumber,
		ApplicantName:     l.ApplicantName,
		Amount:            l.Amount,
		Salary:            l.Salary,
		PaymentTerm:       l.PaymentTerm,
		LoanType:          string(l.LoanType),
		Purpose:           string(l.Purpose),
		Remarks:           l.Remarks,
		Status:            string(l.Status),
		BookkeeperChecked: l.BookkeeperChecked,
		PayrollChecked:    l.PayrollChecked,
		DenialRemarks:     l.DenialRemarks,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		ReleasedAt:        l.ReleasedAt,
	}
}
