package http

import (
	"net/http"

	loanDomain "coop-loan-service/internal/domain/loan"
	userDomain "coop-loan-service/internal/domain/user"
	"coop-loan-service/pkg/id"

	"github.com/labstack/echo/v4"
)

// UserHandler administers office accounts. Every route is admin-gated; the
// user table is also what backs actor resolution.
type UserHandler struct {
	users  userDomain.Repository
	actors *ActorResolver
}

func NewUserHandler(users userDomain.Repository, actors *ActorResolver) *UserHandler {
	return &UserHandler{users: users, actors: actors}
}

func (h *UserHandler) requireAdmin(c echo.Context) error {
	actor, err := h.actors.Resolve(c)
	if err != nil {
		return err
	}
	if !actor.Is(userDomain.RoleAdmin) {
		return loanDomain.ErrRoleNotAllowed
	}
	return nil
}

type createUserReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required"`
	Role  string `json:"role"  validate:"required,oneof=admin bookkeeper payrollChecker approver"`
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	u := &userDomain.User{
		UserID: id.NewID32(),
		Email:  req.Email,
		Name:   req.Name,
		Role:   userDomain.Role(req.Role),
	}
	if err := h.users.Create(c.Request().Context(), u); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

type updateRoleReq struct {
	Role string `json:"role" validate:"required,oneof=admin bookkeeper payrollChecker approver"`
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	if err := h.users.UpdateRole(c.Request().Context(), c.Param("user_id"), userDomain.Role(req.Role)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "role updated"})
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}
	if err := h.users.Delete(c.Request().Context(), c.Param("user_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
