package http

import (
	"log"
	"net/http"
	"time"

	loanUC "coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc     *loanUC.Usecase
	wf     *workflow.Usecase
	actors *ActorResolver
}

func NewLoanHandler(uc *loanUC.Usecase, wf *workflow.Usecase, actors *ActorResolver) *LoanHandler {
	return &LoanHandler{uc: uc, wf: wf, actors: actors}
}

type createLoanReq struct {
	ApplicantName string  `json:"applicant_name" validate:"required"`
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
	PaymentTerm   int     `json:"payment_term"   validate:"required,loanterm"`
	LoanType      string  `json:"loan_type"      validate:"required"`
	Purpose       string  `json:"purpose"        validate:"required"`
	Remarks       string  `json:"remarks"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), loanUC.CreateLoanInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// GetLoan also runs the auto-verification pass when the caller identifies
// itself: viewing a pending application is what flips the checklist flags.
func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")

	if actor, err := h.actors.Resolve(c); err == nil {
		if err := h.wf.Observe(c.Request().Context(), loanID, actor.Role); err != nil {
			log.Printf("observe %s: %v", loanID, err)
		}
	}

	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type updateLoanReq struct {
	Amount      *float64 `json:"amount"       validate:"omitempty,gt=0,dec2"`
	PaymentTerm *int     `json:"payment_term" validate:"omitempty,loanterm"`
	LoanType    *string  `json:"loan_type"`
	Purpose     *string  `json:"purpose"`
	Remarks     *string  `json:"remarks"`
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), loanUC.UpdateLoanInput(req), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setSalaryReq struct {
	Salary float64 `json:"salary" validate:"gte=0,dec2"`
}

func (h *LoanHandler) SetSalary(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req setSalaryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.SetSalary(c.Request().Context(), c.Param("loan_id"), req.Salary, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetComputation(c echo.Context) error {
	comp, err := h.uc.Computation(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comp)
}

func (h *LoanHandler) GetCompliance(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing applicant name"})
	}
	rep, err := h.uc.Compliance(c.Request().Context(), name, c.QueryParam("loan_id"), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *LoanHandler) GetActiveLoans(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing applicant name"})
	}
	n, err := h.uc.ActiveLoanCount(c.Request().Context(), name, c.QueryParam("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"applicant_name":    name,
		"active_loan_count": n,
		"has_active_loans":  n > 0,
	})
}
