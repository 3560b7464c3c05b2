// Package compliance scores an applicant's repayment history across their
// past and active loans and maps it to a discrete risk tier.
package compliance

import (
	"math"
	"time"

	"coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/penalty"
)

type Tier string

const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierCritical Tier = "critical"
)

type Report struct {
	EvaluatedCount int `json:"evaluated_count"`
	PaidOnTime     int `json:"paid_on_time"`
	LateCount      int `json:"late_count"`

	PastDueCount  int     `json:"past_due_count"`
	PastDueAmount float64 `json:"past_due_amount"`

	ActivePenaltyTotal   float64 `json:"active_penalty_total"`
	WaivedPenaltyTotal   float64 `json:"waived_penalty_total"`
	DeferredPenaltyTotal float64 `json:"deferred_penalty_total"`

	UnderpaymentCount     int     `json:"underpayment_count"`
	UnderpaymentShortfall float64 `json:"underpayment_shortfall"`

	ComplianceRate int  `json:"compliance_rate"`
	RiskTier       Tier `json:"risk_tier"`
}

// Aggregate walks the applicant's payment history (the loan under evaluation
// already excluded by the caller) and classifies every installment that has
// entered its evaluation window, i.e. whose due date is at or before
// now + grace days.
//
// Unpaid installments still inside their grace window have no verdict yet and
// are left out of the compliance-rate denominator.
func Aggregate(history []payment.Payment, now time.Time, s penalty.Settings) Report {
	var r Report

	windowEnd := now.AddDate(0, 0, s.GraceDays)
	for _, p := range history {
		if p.DueDate.After(windowEnd) {
			continue
		}

		a := penalty.Evaluate(p, now, s)
		r.ActivePenaltyTotal += a.Amount
		r.WaivedPenaltyTotal += a.Waived
		r.DeferredPenaltyTotal += a.Deferred

		switch {
		case p.Status == payment.StatusPaid && !a.Late:
			r.EvaluatedCount++
			r.PaidOnTime++
		case p.Status == payment.StatusPaid && a.Late:
			r.EvaluatedCount++
			r.LateCount++
		case a.Overdue:
			r.EvaluatedCount++
			r.PastDueCount++
			r.PastDueAmount += p.Amount
		}

		if p.Status == payment.StatusPaid && p.AmountPaid > 0 && p.AmountPaid < p.Amount {
			r.UnderpaymentCount++
			r.UnderpaymentShortfall += p.Amount - p.AmountPaid
		}
	}

	if r.EvaluatedCount == 0 {
		r.ComplianceRate = 100
	} else {
		r.ComplianceRate = int(math.Round(100 * float64(r.PaidOnTime) / float64(r.EvaluatedCount)))
	}

	r.RiskTier = tierFor(r)
	return r
}

// tierFor is evaluated in priority order; an open past-due balance
// short-circuits everything else.
func tierFor(r Report) Tier {
	switch {
	case r.PastDueCount > 0 || r.PastDueAmount > 0:
		return TierCritical
	case r.LateCount >= 3 || r.DeferredPenaltyTotal > 0 || r.ComplianceRate < 50:
		return TierHigh
	case r.LateCount >= 1 || r.ActivePenaltyTotal > 0 || r.ComplianceRate < 80:
		return TierMedium
	default:
		return TierLow
	}
}
