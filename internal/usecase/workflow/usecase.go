// Package workflow is the gating authority over the loan lifecycle:
// pending → {approved, denied}; approved → released; released → fully-paid.
// Every guarded mutation runs inside a row-locked transaction so a stale
// client surfaces a conflict instead of clobbering a concurrent transition.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"coop-loan-service/internal/amortization"
	domainLoan "coop-loan-service/internal/domain/loan"
	domainPayment "coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/domain/settings"
	"coop-loan-service/internal/domain/uow"
	"coop-loan-service/internal/domain/user"
	"coop-loan-service/internal/event"
	"coop-loan-service/internal/penalty"
	"coop-loan-service/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	loanRepo     domainLoan.Repository
	paymentRepo  domainPayment.Repository
	settingsRepo settings.Repository
	uow          uow.UnitOfWork
	bus          event.Bus
	now          func() time.Time
}

func NewUsecase(loans domainLoan.Repository, payments domainPayment.Repository, cfg settings.Repository, tx uow.UnitOfWork, bus event.Bus) *Usecase {
	return &Usecase{
		loanRepo:     loans,
		paymentRepo:  payments,
		settingsRepo: cfg,
		uow:          tx,
		bus:          bus,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase { u.now = now; return u }

// RequestTransition is the single command entry point for user-triggered
// transitions.
func (u *Usecase) RequestTransition(ctx context.Context, loanID string, t Transition, actor user.Actor, p Payload) (*LoanResult, error) {
	switch t {
	case TransitionApprove:
		return u.Approve(ctx, loanID, actor)
	case TransitionDeny:
		return u.Deny(ctx, loanID, p.Remarks, actor)
	case TransitionRelease:
		return u.Release(ctx, loanID, actor)
	default:
		return nil, fmt.Errorf("%w: unknown transition %q", domainLoan.ErrInvalidTransition, t)
	}
}

// Approve moves pending → approved once both checklist flags are set.
func (u *Usecase) Approve(ctx context.Context, loanID string, actor user.Actor) (*LoanResult, error) {
	if !actor.Is(user.RoleApprover, user.RoleAdmin) {
		return nil, domainLoan.ErrRoleNotAllowed
	}

	var out *LoanResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPending {
			return domainLoan.ErrInvalidTransition
		}
		if !l.BookkeeperChecked {
			return fmt.Errorf("%w: bookkeeper must verify the loan before approval", domainLoan.ErrPrerequisiteNotMet)
		}
		if !l.PayrollChecked {
			return fmt.Errorf("%w: payroll checker must verify the salary before approval", domainLoan.ErrPrerequisiteNotMet)
		}

		l.Status = domainLoan.StatusApproved
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = &LoanResult{LoanID: l.LoanID, Status: string(l.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanApproved, LoanID: loanID, At: u.now()})
	return out, nil
}

// Deny moves pending → denied. The salary must be known (payroll check) so
// the denial is justified, and remarks are mandatory.
func (u *Usecase) Deny(ctx context.Context, loanID, remarks string, actor user.Actor) (*LoanResult, error) {
	if !actor.Is(user.RoleApprover, user.RoleAdmin) {
		return nil, domainLoan.ErrRoleNotAllowed
	}
	if remarks == "" {
		return nil, domainLoan.ErrRemarksRequired
	}

	var out *LoanResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPending {
			return domainLoan.ErrInvalidTransition
		}
		if !l.PayrollChecked {
			return fmt.Errorf("%w: payroll checker must verify the salary before denial", domainLoan.ErrPrerequisiteNotMet)
		}

		l.Status = domainLoan.StatusDenied
		l.DenialRemarks = remarks
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = &LoanResult{LoanID: l.LoanID, Status: string(l.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanDenied, LoanID: loanID, At: u.now()})
	return out, nil
}

// Release moves approved → released, stamping releasedAt and inserting the
// full payment schedule in the same transaction. A loan marked released
// without its schedule never becomes visible.
func (u *Usecase) Release(ctx context.Context, loanID string, actor user.Actor) (*LoanResult, error) {
	if !actor.Is(user.RoleBookkeeper, user.RoleAdmin) {
		return nil, domainLoan.ErrRoleNotAllowed
	}

	var out *LoanResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusApproved {
			return domainLoan.ErrInvalidTransition
		}

		releasedAt := u.now()
		schedule := amortization.BuildSchedule(l.Amount, l.PaymentTerm, releasedAt)
		if len(schedule) == 0 {
			return fmt.Errorf("%w: cannot build a schedule for amount %v over %d months",
				domainLoan.ErrInvalidLoanTerms, l.Amount, l.PaymentTerm)
		}
		for i := range schedule {
			schedule[i].PaymentID = id.NewID32()
			schedule[i].LoanID = l.ID
		}

		l.Status = domainLoan.StatusReleased
		l.ReleasedAt = &releasedAt
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Payments.CreateBatch(ctx, schedule); err != nil {
			return err
		}
		out = &LoanResult{LoanID: l.LoanID, Status: string(l.Status), ReleasedAt: l.ReleasedAt, Payments: len(schedule)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeLoanReleased, LoanID: loanID, At: u.now()})
	return out, nil
}

// MarkPaymentPaid records a collection. Re-marking a paid installment is a
// no-op: it neither errors nor re-triggers the fully-paid transition. When
// the last pending installment is collected, the loan flips to fully-paid in
// the same transaction, exactly once.
func (u *Usecase) MarkPaymentPaid(ctx context.Context, loanID, paymentID string, paymentDate time.Time, amountPaid float64, actor user.Actor) (*PaymentResult, error) {
	if !actor.Is(user.RoleBookkeeper, user.RoleAdmin) {
		return nil, domainLoan.ErrRoleNotAllowed
	}
	if paymentDate.IsZero() {
		paymentDate = u.now()
	}

	var out *PaymentResult
	var completed bool
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusReleased && l.Status != domainLoan.StatusFullyPaid {
			return domainLoan.ErrInvalidTransition
		}

		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPayment.ErrNotFound
			}
			return err
		}
		if p.LoanID != l.ID {
			return domainPayment.ErrNotFound
		}

		if p.Status == domainPayment.StatusPaid {
			out = &PaymentResult{PaymentID: p.PaymentID, Status: string(p.Status), PaymentDate: p.PaymentDate}
			return nil
		}

		if amountPaid <= 0 {
			amountPaid = p.Amount
		}
		p.Status = domainPayment.StatusPaid
		p.PaymentDate = &paymentDate
		p.AmountPaid = amountPaid
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		pending, err := r.Payments.CountPendingByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		if pending == 0 && l.Status == domainLoan.StatusReleased {
			l.Status = domainLoan.StatusFullyPaid
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			completed = true
		}

		out = &PaymentResult{PaymentID: p.PaymentID, Status: string(p.Status), PaymentDate: p.PaymentDate, LoanFullyPaid: completed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypePaymentPaid, LoanID: loanID, PaymentID: paymentID, At: u.now()})
	if completed {
		u.bus.Publish(ctx, event.Event{Type: event.TypeLoanFullyPaid, LoanID: loanID, At: u.now()})
	}
	return out, nil
}

// WaivePenalty terminally forgives an installment's penalty.
func (u *Usecase) WaivePenalty(ctx context.Context, loanID, paymentID string, actor user.Actor) error {
	return u.setPenaltyFlag(ctx, loanID, paymentID, actor, event.TypePenaltyWaived, func(p *domainPayment.Payment) error {
		if p.PenaltyDeferred {
			return domainPayment.ErrPenaltyFlagConflict
		}
		p.PenaltyWaived = true
		return nil
	})
}

// DeferPenalty moves the penalty into the deferred bucket: excluded from
// active totals but still reported.
func (u *Usecase) DeferPenalty(ctx context.Context, loanID, paymentID string, actor user.Actor) error {
	return u.setPenaltyFlag(ctx, loanID, paymentID, actor, event.TypePenaltyDeferred, func(p *domainPayment.Payment) error {
		if p.PenaltyWaived {
			return domainPayment.ErrPenaltyFlagConflict
		}
		p.PenaltyDeferred = true
		return nil
	})
}

func (u *Usecase) setPenaltyFlag(ctx context.Context, loanID, paymentID string, actor user.Actor, evt event.Type, mutate func(*domainPayment.Payment) error) error {
	if !actor.Is(user.RoleBookkeeper, user.RoleAdmin) {
		return domainLoan.ErrRoleNotAllowed
	}

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPayment.ErrNotFound
			}
			return err
		}
		if p.LoanID != l.ID {
			return domainPayment.ErrNotFound
		}
		if err := mutate(p); err != nil {
			return err
		}
		return r.Payments.Save(ctx, p)
	})
	if err != nil {
		return err
	}

	u.bus.Publish(ctx, event.Event{Type: evt, LoanID: loanID, PaymentID: paymentID, At: u.now()})
	return nil
}

// ResyncSchedule re-anchors an already-generated schedule after a releasedAt
// correction. Existing payment rows are updated in place; nothing is
// re-inserted. Admin only: this is a data fix, not a workflow step.
func (u *Usecase) ResyncSchedule(ctx context.Context, loanID string, releasedAt time.Time, actor user.Actor) error {
	if !actor.Is(user.RoleAdmin) {
		return domainLoan.ErrRoleNotAllowed
	}
	if releasedAt.IsZero() {
		return fmt.Errorf("%w: release date is required", domainLoan.ErrInvalidLoanTerms)
	}

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusReleased && l.Status != domainLoan.StatusFullyPaid {
			return domainLoan.ErrInvalidTransition
		}

		ps, err := r.Payments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}

		l.ReleasedAt = &releasedAt
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dates := amortization.DueDates(releasedAt, len(ps))
		for i := range ps {
			ps[i].DueDate = dates[i]
			if err := r.Payments.Save(ctx, &ps[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeScheduleResync, LoanID: loanID, At: u.now()})
	return nil
}

// Observe runs the system-initiated auto-verification pass on load: while a
// loan is pending, bookkeeper visibility flips bookkeeperChecked, and a
// known positive salary flips payrollChecked. Idempotent; no user click.
func (u *Usecase) Observe(ctx context.Context, loanID string, viewer user.Role) error {
	changed := false
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPending {
			return nil
		}
		if !l.BookkeeperChecked && (viewer == user.RoleBookkeeper || viewer == user.RoleAdmin) {
			l.BookkeeperChecked = true
			changed = true
		}
		if !l.PayrollChecked && l.Salary > 0 {
			l.PayrollChecked = true
			changed = true
		}
		if !changed {
			return nil
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		return err
	}

	if changed {
		u.bus.Publish(ctx, event.Event{Type: event.TypeLoanUpdated, LoanID: loanID, At: u.now()})
	}
	return nil
}

// Schedule returns the collection schedule with penalties evaluated fresh
// against now; unpaid installments drift as the clock moves, so results are
// never cached.
func (u *Usecase) Schedule(ctx context.Context, loanID string, now time.Time) ([]InstallmentDTO, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	ps, err := u.paymentRepo.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	cfg := penalty.SettingsFrom(settings.LoadOrDefault(ctx, u.settingsRepo))
	out := make([]InstallmentDTO, 0, len(ps))
	for i := range ps {
		a := penalty.Evaluate(ps[i], now, cfg)
		out = append(out, InstallmentDTO{
			PaymentID:       ps[i].PaymentID,
			PaymentNumber:   ps[i].PaymentNumber,
			DueDate:         ps[i].DueDate,
			Amount:          ps[i].Amount,
			Principal:       ps[i].Principal,
			Interest:        ps[i].Interest,
			Status:          string(ps[i].Status),
			PaymentDate:     ps[i].PaymentDate,
			AmountPaid:      ps[i].AmountPaid,
			Penalty:         a.Amount,
			PenaltyWaived:   ps[i].PenaltyWaived,
			PenaltyDeferred: ps[i].PenaltyDeferred,
			Late:            a.Late,
			Overdue:         a.Overdue,
		})
	}
	return out, nil
}

// PastDue lists overdue pending installments across all released loans,
// most overdue first.
func (u *Usecase) PastDue(ctx context.Context, now time.Time) ([]PastDueItem, error) {
	loans, err := u.loanRepo.List(ctx, domainLoan.StatusReleased)
	if err != nil {
		return nil, err
	}
	cfg := penalty.SettingsFrom(settings.LoadOrDefault(ctx, u.settingsRepo))

	var out []PastDueItem
	for i := range loans {
		ps, err := u.paymentRepo.ListByLoan(ctx, loans[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range ps {
			if ps[j].Status != domainPayment.StatusPending {
				continue
			}
			a := penalty.Evaluate(ps[j], now, cfg)
			if !a.Overdue {
				continue
			}
			out = append(out, PastDueItem{
				LoanID:        loans[i].LoanID,
				ApplicantName: loans[i].ApplicantName,
				PaymentID:     ps[j].PaymentID,
				PaymentNumber: ps[j].PaymentNumber,
				DueDate:       ps[j].DueDate,
				DaysOverdue:   a.DaysPastDue,
				Amount:        ps[j].Amount,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out, nil
}

// Penalties lists installments carrying an active penalty.
func (u *Usecase) Penalties(ctx context.Context, now time.Time) ([]PenaltyItem, error) {
	loans, err := u.loanRepo.List(ctx, domainLoan.StatusReleased)
	if err != nil {
		return nil, err
	}
	cfg := penalty.SettingsFrom(settings.LoadOrDefault(ctx, u.settingsRepo))

	var out []PenaltyItem
	for i := range loans {
		ps, err := u.paymentRepo.ListByLoan(ctx, loans[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range ps {
			a := penalty.Evaluate(ps[j], now, cfg)
			if a.Amount <= 0 {
				continue
			}
			out = append(out, PenaltyItem{
				LoanID:        loans[i].LoanID,
				ApplicantName: loans[i].ApplicantName,
				PaymentID:     ps[j].PaymentID,
				PaymentNumber: ps[j].PaymentNumber,
				DueDate:       ps[j].DueDate,
				PenaltyAmount: a.Amount,
			})
		}
	}
	return out, nil
}

// GetPenaltySettings never fails: absent or unreadable settings resolve to
// the documented defaults.
func (u *Usecase) GetPenaltySettings(ctx context.Context) settings.PenaltySettings {
	return settings.LoadOrDefault(ctx, u.settingsRepo)
}

func (u *Usecase) UpdatePenaltySettings(ctx context.Context, amount float64, graceDays int, actor user.Actor) (*settings.PenaltySettings, error) {
	if !actor.Is(user.RoleAdmin) {
		return nil, domainLoan.ErrRoleNotAllowed
	}
	if amount < 0 || graceDays < 0 {
		return nil, fmt.Errorf("%w: penalty amount and grace days must not be negative", domainLoan.ErrInvalidLoanTerms)
	}

	s := &settings.PenaltySettings{PenaltyAmount: amount, GracePeriodDays: graceDays, UpdatedBy: actor.UserID}
	if err := u.settingsRepo.Upsert(ctx, s); err != nil {
		return nil, err
	}

	u.bus.Publish(ctx, event.Event{Type: event.TypeSettingsUpdated, At: u.now()})
	return s, nil
}
