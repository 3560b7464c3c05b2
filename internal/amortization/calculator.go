package amortization

import (
	"math"

	"coop-loan-service/internal/domain/loan"
)

// Cooperative rates. Business-approved; see DESIGN.md before touching.
const (
	// 1.5% monthly on the diminishing balance.
	MonthlyInterestRate = 0.015
	// 6% annualized service charge, prorated by term/12.
	ServiceChargeRate = 0.06
	ShareCapitalRate  = 0.01
)

type Period struct {
	Month            int     `json:"month"`
	BeginningBalance float64 `json:"beginning_balance"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	EndingBalance    float64 `json:"ending_balance"`
}

type Computation struct {
	Principal float64  `json:"principal"`
	Term      int      `json:"term"`
	Schedule  []Period `json:"schedule"`

	MonthlyPrincipal float64 `json:"monthly_principal"`
	TotalInterest    float64 `json:"total_interest"`

	ServiceCharge          float64 `json:"service_charge"`
	ShareCapital           float64 `json:"share_capital"`
	FirstMonthAmortization float64 `json:"first_month_amortization"`
	FirstMonthInterest     float64 `json:"first_month_interest"`
	TotalDeductions        float64 `json:"total_deductions"`
	NetProceeds            float64 `json:"net_proceeds"`
}

// Calculate produces the diminishing-balance schedule and the release
// deductions for a principal and term.
//
// The per-period principal is floor(principal/term); the last period absorbs
// the remainder so the schedule's principal components sum to the principal
// exactly. A single-payment loan collects its interest upfront as a
// deduction, so its schedule carries zero interest.
func Calculate(principal float64, term int) (*Computation, error) {
	if principal <= 0 || !loan.TermAllowed(term) {
		return nil, loan.ErrInvalidLoanTerms
	}

	monthlyPrincipal := math.Floor(principal / float64(term))
	balance := principal
	var principalPaid, totalInterest float64

	schedule := make([]Period, 0, term)
	for month := 1; month <= term; month++ {
		interest := balance * MonthlyInterestRate
		totalInterest += interest

		principalPart := monthlyPrincipal
		if month == term {
			// Close out exactly on the last installment.
			principalPart = principal - principalPaid
		}

		ending := balance - principalPart
		if ending < 0 {
			ending = 0
		}

		schedule = append(schedule, Period{
			Month:            month,
			BeginningBalance: balance,
			Interest:         interest,
			Principal:        principalPart,
			EndingBalance:    ending,
		})

		balance = ending
		principalPaid += principalPart
	}

	serviceCharge := principal * ServiceChargeRate * float64(term) / 12
	shareCapital := principal * ShareCapitalRate
	firstMonthInterest := schedule[0].Interest

	// No amortization to front-deduct on a single-payment loan.
	firstMonthAmortization := schedule[0].Principal
	if term == 1 {
		firstMonthAmortization = 0
	}

	totalDeductions := serviceCharge + shareCapital + firstMonthAmortization + firstMonthInterest

	if term == 1 {
		// Interest was folded into the deductions above and is not repaid
		// through the schedule.
		schedule[0].Interest = 0
	}

	return &Computation{
		Principal:              principal,
		Term:                   term,
		Schedule:               schedule,
		MonthlyPrincipal:       monthlyPrincipal,
		TotalInterest:          totalInterest,
		ServiceCharge:          serviceCharge,
		ShareCapital:           shareCapital,
		FirstMonthAmortization: firstMonthAmortization,
		FirstMonthInterest:     firstMonthInterest,
		TotalDeductions:        totalDeductions,
		NetProceeds:            principal - totalDeductions,
	}, nil
}
