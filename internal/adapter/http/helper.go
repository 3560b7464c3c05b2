package http

import (
	"errors"
	"net/http"

	loanDomain "coop-loan-service/internal/domain/loan"
	paymentDomain "coop-loan-service/internal/domain/payment"
	userDomain "coop-loan-service/internal/domain/user"
	"coop-loan-service/internal/risk"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ---- domain error → HTTP code mapping ----

func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, paymentDomain.ErrNotFound),
		errors.Is(err, userDomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})

	case errors.Is(err, loanDomain.ErrRoleNotAllowed):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, loanDomain.ErrPrerequisiteNotMet),
		errors.Is(err, risk.ErrSalaryNotSet):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, loanDomain.ErrConflict),
		errors.Is(err, paymentDomain.ErrPenaltyFlagConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, loanDomain.ErrInvalidLoanTerms),
		errors.Is(err, loanDomain.ErrRemarksRequired),
		errors.Is(err, errActorHeader):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
