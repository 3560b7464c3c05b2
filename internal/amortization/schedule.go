package amortization

import (
	"time"

	"coop-loan-service/internal/domain/payment"
)

// AddMonths advances t by n calendar months, keeping the day-of-month. When
// the target month is shorter, the date falls on that month's last day.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	anchor := time.Date(y, time.Month(int(m)+n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(anchor.Year(), anchor.Month()); d > last {
		d = last
	}
	return time.Date(anchor.Year(), anchor.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildSchedule turns the amortization periods into concrete installment
// records anchored on the release date: installment i falls due exactly i
// calendar months after release.
//
// A non-positive term or zero release time yields an empty schedule, not an
// error; the state machine validates those preconditions before release.
func BuildSchedule(principal float64, term int, releasedAt time.Time) []payment.Payment {
	if term <= 0 || releasedAt.IsZero() {
		return nil
	}
	comp, err := Calculate(principal, term)
	if err != nil {
		return nil
	}

	out := make([]payment.Payment, 0, term)
	for _, p := range comp.Schedule {
		out = append(out, payment.Payment{
			PaymentNumber: p.Month,
			DueDate:       AddMonths(releasedAt, p.Month),
			Amount:        p.Principal + p.Interest,
			Principal:     p.Principal,
			Interest:      p.Interest,
			Status:        payment.StatusPending,
		})
	}
	return out
}

// DueDates re-derives the due dates for an existing schedule of n
// installments from a (possibly corrected) release anchor.
func DueDates(releasedAt time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, AddMonths(releasedAt, i))
	}
	return out
}
