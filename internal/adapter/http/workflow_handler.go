package http

import (
	"net/http"
	"time"

	loanDomain "coop-loan-service/internal/domain/loan"
	loanUC "coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type WorkflowHandler struct {
	wf     *workflow.Usecase
	loans  *loanUC.Usecase
	actors *ActorResolver
}

func NewWorkflowHandler(wf *workflow.Usecase, loans *loanUC.Usecase, actors *ActorResolver) *WorkflowHandler {
	return &WorkflowHandler{wf: wf, loans: loans, actors: actors}
}

type transitionReq struct {
	Transition string `json:"transition" validate:"required,oneof=approve deny release"`
	Remarks    string `json:"remarks"`
}

func (h *WorkflowHandler) Transition(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.wf.RequestTransition(c.Request().Context(), c.Param("loan_id"),
		workflow.Transition(req.Transition), actor, workflow.Payload{Remarks: req.Remarks})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *WorkflowHandler) GetSchedule(c echo.Context) error {
	rows, err := h.wf.Schedule(c.Request().Context(), c.Param("loan_id"), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

type markPaidReq struct {
	// Defaults to now when omitted. RFC3339.
	PaymentDate string `json:"payment_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	// Defaults to the installment amount when omitted.
	AmountPaid float64 `json:"amount_paid" validate:"omitempty,gt=0,dec2"`
}

func (h *WorkflowHandler) MarkPaid(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req markPaidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	var paidAt time.Time
	if req.PaymentDate != "" {
		paidAt, _ = time.Parse(time.RFC3339, req.PaymentDate)
	}

	res, err := h.wf.MarkPaymentPaid(c.Request().Context(), c.Param("loan_id"), c.Param("payment_id"),
		paidAt, req.AmountPaid, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *WorkflowHandler) WaivePenalty(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.wf.WaivePenalty(c.Request().Context(), c.Param("loan_id"), c.Param("payment_id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "penalty waived"})
}

func (h *WorkflowHandler) DeferPenalty(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.wf.DeferPenalty(c.Request().Context(), c.Param("loan_id"), c.Param("payment_id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "penalty deferred"})
}

type resyncReq struct {
	ReleasedAt string `json:"released_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *WorkflowHandler) ResyncSchedule(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req resyncReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	releasedAt, _ := time.Parse(time.RFC3339, req.ReleasedAt)
	if err := h.wf.ResyncSchedule(c.Request().Context(), c.Param("loan_id"), releasedAt, actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "schedule resynced"})
}

// ReleaseWorklist lists approved loans waiting for the bookkeeper.
func (h *WorkflowHandler) ReleaseWorklist(c echo.Context) error {
	dtos, err := h.loans.List(c.Request().Context(), string(loanDomain.StatusApproved))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *WorkflowHandler) PastDueWorklist(c echo.Context) error {
	items, err := h.wf.PastDue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *WorkflowHandler) PenaltiesWorklist(c echo.Context) error {
	items, err := h.wf.Penalties(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *WorkflowHandler) GetPenaltySettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.wf.GetPenaltySettings(c.Request().Context()))
}

type penaltySettingsReq struct {
	PenaltyAmount   float64 `json:"penalty_amount"    validate:"gte=0,dec2"`
	GracePeriodDays int     `json:"grace_period_days" validate:"gte=0,lte=90"`
}

func (h *WorkflowHandler) UpdatePenaltySettings(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return respondError(c, err)
	}

	var req penaltySettingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	s, err := h.wf.UpdatePenaltySettings(c.Request().Context(), req.PenaltyAmount, req.GracePeriodDays, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
