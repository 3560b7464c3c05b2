package compliance

import (
	"testing"
	"time"

	"coop-loan-service/internal/domain/payment"
	"coop-loan-service/internal/penalty"
)

var testSettings = penalty.Settings{Amount: 500, GraceDays: 3}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func paid(due, when time.Time, amount float64) payment.Payment {
	return payment.Payment{
		DueDate:     due,
		Status:      payment.StatusPaid,
		PaymentDate: &when,
		Amount:      amount,
		AmountPaid:  amount,
	}
}

func pending(due time.Time, amount float64) payment.Payment {
	return payment.Payment{DueDate: due, Status: payment.StatusPending, Amount: amount}
}

func TestAggregate_EmptyHistoryIsLowRisk(t *testing.T) {
	r := Aggregate(nil, date(2024, time.June, 1), testSettings)
	if r.ComplianceRate != 100 {
		t.Fatalf("compliance rate = %d, want 100", r.ComplianceRate)
	}
	if r.RiskTier != TierLow {
		t.Fatalf("tier = %q, want low", r.RiskTier)
	}
}

func TestAggregate_PerfectHistory(t *testing.T) {
	now := date(2024, time.June, 1)
	history := []payment.Payment{
		paid(date(2024, time.January, 15), date(2024, time.January, 15), 1816),
		paid(date(2024, time.February, 15), date(2024, time.February, 17), 1791),
		paid(date(2024, time.March, 15), date(2024, time.March, 14), 1766),
	}
	r := Aggregate(history, now, testSettings)
	if r.PaidOnTime != 3 || r.LateCount != 0 || r.PastDueCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want 3/0/0", r.PaidOnTime, r.LateCount, r.PastDueCount)
	}
	if r.ComplianceRate != 100 || r.RiskTier != TierLow {
		t.Fatalf("rate=%d tier=%q, want 100/low", r.ComplianceRate, r.RiskTier)
	}
}

func TestAggregate_PastDueIsCriticalEvenWithPerfectRate(t *testing.T) {
	now := date(2024, time.June, 1)
	history := []payment.Payment{
		paid(date(2024, time.January, 15), date(2024, time.January, 15), 1816),
		paid(date(2024, time.February, 15), date(2024, time.February, 16), 1791),
		// One freshly overdue installment.
		pending(date(2024, time.May, 15), 1766),
	}
	r := Aggregate(history, now, testSettings)
	if r.PastDueCount != 1 {
		t.Fatalf("past due count = %d, want 1", r.PastDueCount)
	}
	if r.PastDueAmount != 1766 {
		t.Fatalf("past due amount = %v, want 1766", r.PastDueAmount)
	}
	if r.RiskTier != TierCritical {
		t.Fatalf("tier = %q, want critical (past-due short-circuits)", r.RiskTier)
	}
}

func TestAggregate_ThreeLatePaymentsIsHigh(t *testing.T) {
	now := date(2024, time.June, 1)
	var history []payment.Payment
	for m := time.January; m <= time.March; m++ {
		due := date(2024, m, 15)
		history = append(history, paid(due, due.AddDate(0, 0, 10), 1000))
	}
	r := Aggregate(history, now, testSettings)
	if r.LateCount != 3 {
		t.Fatalf("late count = %d, want 3", r.LateCount)
	}
	if r.RiskTier != TierHigh {
		t.Fatalf("tier = %q, want high", r.RiskTier)
	}
}

func TestAggregate_OneLatePaymentIsMedium(t *testing.T) {
	now := date(2024, time.June, 1)
	history := []payment.Payment{
		paid(date(2024, time.January, 15), date(2024, time.January, 25), 1000),
		paid(date(2024, time.February, 15), date(2024, time.February, 15), 1000),
		paid(date(2024, time.March, 15), date(2024, time.March, 15), 1000),
		paid(date(2024, time.April, 15), date(2024, time.April, 15), 1000),
	}
	r := Aggregate(history, now, testSettings)
	if r.LateCount != 1 {
		t.Fatalf("late count = %d, want 1", r.LateCount)
	}
	if r.RiskTier != TierMedium {
		t.Fatalf("tier = %q, want medium", r.RiskTier)
	}
}

func TestAggregate_DeferredPenaltyForcesHigh(t *testing.T) {
	now := date(2024, time.June, 1)
	late := paid(date(2024, time.January, 15), date(2024, time.January, 25), 1000)
	late.PenaltyDeferred = true
	history := []payment.Payment{
		late,
		paid(date(2024, time.February, 15), date(2024, time.February, 15), 1000),
	}
	r := Aggregate(history, now, testSettings)
	if r.DeferredPenaltyTotal != 500 {
		t.Fatalf("deferred total = %v, want 500", r.DeferredPenaltyTotal)
	}
	if r.ActivePenaltyTotal != 0 {
		t.Fatalf("active total = %v, want 0", r.ActivePenaltyTotal)
	}
	if r.RiskTier != TierHigh {
		t.Fatalf("tier = %q, want high", r.RiskTier)
	}
}

func TestAggregate_WaivedPenaltyDoesNotRaiseTierByItself(t *testing.T) {
	now := date(2024, time.June, 1)
	late := paid(date(2024, time.January, 15), date(2024, time.January, 25), 1000)
	late.PenaltyWaived = true
	history := []payment.Payment{late}
	r := Aggregate(history, now, testSettings)
	if r.WaivedPenaltyTotal != 500 {
		t.Fatalf("waived total = %v, want 500", r.WaivedPenaltyTotal)
	}
	// Still medium: the payment itself was late.
	if r.RiskTier != TierMedium {
		t.Fatalf("tier = %q, want medium", r.RiskTier)
	}
}

func TestAggregate_Underpayment(t *testing.T) {
	now := date(2024, time.June, 1)
	short := paid(date(2024, time.January, 15), date(2024, time.January, 15), 1000)
	short.AmountPaid = 800
	r := Aggregate([]payment.Payment{short}, now, testSettings)
	if r.UnderpaymentCount != 1 {
		t.Fatalf("underpayment count = %d, want 1", r.UnderpaymentCount)
	}
	if r.UnderpaymentShortfall != 200 {
		t.Fatalf("shortfall = %v, want 200", r.UnderpaymentShortfall)
	}
}

func TestAggregate_FutureInstallmentsNotEvaluated(t *testing.T) {
	now := date(2024, time.June, 1)
	history := []payment.Payment{
		pending(date(2024, time.July, 15), 1000),  // not yet due
		pending(date(2024, time.June, 3), 1000),   // due, inside grace: no verdict yet
		paid(date(2024, time.May, 15), date(2024, time.May, 15), 1000),
	}
	r := Aggregate(history, now, testSettings)
	if r.EvaluatedCount != 1 {
		t.Fatalf("evaluated = %d, want 1", r.EvaluatedCount)
	}
	if r.RiskTier != TierLow {
		t.Fatalf("tier = %q, want low", r.RiskTier)
	}
}
