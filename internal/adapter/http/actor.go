package http

import (
	"errors"
	"fmt"
	"strings"

	loanDomain "coop-loan-service/internal/domain/loan"
	userDomain "coop-loan-service/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// HeaderActorID carries the acting user's public id on every gated request.
const HeaderActorID = "Ax-Actor-Id"

var errActorHeader = errors.New("missing or malformed Ax-Actor-Id header")

// ActorResolver turns the Ax-Actor-Id header into a role-bearing actor.
// Role gates themselves live in the usecases; this only answers "who".
type ActorResolver struct{ users userDomain.Repository }

func NewActorResolver(users userDomain.Repository) *ActorResolver {
	return &ActorResolver{users: users}
}

func (a *ActorResolver) Resolve(c echo.Context) (userDomain.Actor, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
	if !reHex32.MatchString(raw) {
		return userDomain.Actor{}, errActorHeader
	}
	u, err := a.users.GetByUserID(c.Request().Context(), raw)
	if err != nil {
		if errors.Is(err, userDomain.ErrNotFound) {
			return userDomain.Actor{}, fmt.Errorf("%w: unknown actor", loanDomain.ErrRoleNotAllowed)
		}
		return userDomain.Actor{}, err
	}
	return userDomain.Actor{UserID: u.UserID, Role: u.Role}, nil
}
