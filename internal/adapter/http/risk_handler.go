package http

import (
	"net/http"

	"coop-loan-service/internal/risk"
	loanUC "coop-loan-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// RiskHandler exposes the AI-backed advisory. The assessment is a hint for
// approvers, never a gate: the state machine does not consult it.
type RiskHandler struct {
	advisor *risk.Advisor
	loans   *loanUC.Usecase
}

func NewRiskHandler(advisor *risk.Advisor, loans *loanUC.Usecase) *RiskHandler {
	return &RiskHandler{advisor: advisor, loans: loans}
}

func (h *RiskHandler) AssessLoan(c echo.Context) error {
	ctx := c.Request().Context()
	loanID := c.Param("loan_id")

	dto, err := h.loans.Get(ctx, loanID)
	if err != nil {
		return respondError(c, err)
	}
	history, err := h.loans.DenialHistory(ctx, dto.ApplicantName, loanID)
	if err != nil {
		return respondError(c, err)
	}

	a, err := h.advisor.Assess(ctx, risk.Input{
		ApplicantName: dto.ApplicantName,
		Amount:        dto.Amount,
		Salary:        dto.Salary,
		DenialHistory: history,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
