// Package penalty decides whether an installment has earned a penalty.
// Evaluation is a pure function of the installment, the reference time, and
// the penalty settings; "now" moves for unpaid installments, so callers must
// evaluate fresh on every read instead of caching results.
package penalty

import (
	"time"

	"coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/domain/settings"
)

type Settings struct {
	Amount    float64
	GraceDays int
}

func SettingsFrom(s settings.PenaltySettings) Settings {
	return Settings{Amount: s.PenaltyAmount, GraceDays: s.GracePeriodDays}
}

type Assessment struct {
	// Amount is the active penalty: neither waived nor deferred.
	Amount float64
	// Waived and Deferred hold the amount that would have applied; deferred
	// penalties are reported in their own bucket, waived ones are terminal.
	Waived   float64
	Deferred float64

	// Late: paid after the grace period. Overdue: unpaid past the grace period.
	Late        bool
	Overdue     bool
	DaysPastDue int
}

// Evaluate assesses one installment against the grace period. Paid
// installments are judged by their recorded payment date; unpaid ones by now.
func Evaluate(p payment.Payment, now time.Time, s Settings) Assessment {
	var a Assessment

	if p.Status == payment.StatusPaid && p.PaymentDate != nil {
		days := daysBetween(p.DueDate, *p.PaymentDate)
		a.Late = days > s.GraceDays
		if a.Late {
			a.DaysPastDue = days
		}
	} else {
		days := daysBetween(p.DueDate, now)
		a.Overdue = days > s.GraceDays
		if a.Overdue {
			a.DaysPastDue = days
		}
	}

	if !a.Late && !a.Overdue {
		return a
	}

	switch {
	case p.PenaltyWaived:
		a.Waived = s.Amount
	case p.PenaltyDeferred:
		a.Deferred = s.Amount
	default:
		a.Amount = s.Amount
	}
	return a
}

// daysBetween counts calendar days from one date to another, ignoring the
// time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
