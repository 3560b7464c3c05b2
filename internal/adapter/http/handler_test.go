package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	loanDomain "coop-loan-service/internal/domain/loan"
	userDomain "coop-loan-service/internal/domain/user"
	"coop-loan-service/internal/testutil/usermock"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// One deterministic actor id per role; the mock user repo resolves them.
var actorIDs = map[userDomain.Role]string{
	userDomain.RoleAdmin:          strings.Repeat("a", 32),
	userDomain.RoleBookkeeper:     strings.Repeat("b", 32),
	userDomain.RolePayrollChecker: strings.Repeat("c", 32),
	userDomain.RoleApprover:       strings.Repeat("d", 32),
}

func testActorResolver() *ActorResolver {
	return NewActorResolver(&usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*userDomain.User, error) {
			for role, id := range actorIDs {
				if id == userID {
					return &userDomain.User{UserID: id, Role: role}, nil
				}
			}
			return nil, userDomain.ErrNotFound
		},
	})
}

func asActor(req *stdhttp.Request, role userDomain.Role) {
	req.Header.Set(HeaderActorID, actorIDs[role])
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// -------- health --------

func TestHealth(t *testing.T) {
	e := newEchoWithValidator()
	h := NewHandler()

	req := httptest.NewRequest(stdhttp.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

// -------- actor resolution --------

func TestActorResolver(t *testing.T) {
	e := newEchoWithValidator()
	resolver := testActorResolver()

	t.Run("resolves a known actor", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/", nil)
		asActor(req, userDomain.RoleBookkeeper)
		actor, err := resolver.Resolve(e.NewContext(req, httptest.NewRecorder()))
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if actor.Role != userDomain.RoleBookkeeper {
			t.Fatalf("role = %q", actor.Role)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/", nil)
		if _, err := resolver.Resolve(e.NewContext(req, httptest.NewRecorder())); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("unknown actor maps to role error", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/", nil)
		req.Header.Set(HeaderActorID, strings.Repeat("f", 32))
		_, err := resolver.Resolve(e.NewContext(req, httptest.NewRecorder()))
		if err == nil {
			t.Fatal("expected an error")
		}
		rec := httptest.NewRecorder()
		_ = respondError(e.NewContext(httptest.NewRequest(stdhttp.MethodPost, "/", nil), rec), err)
		if rec.Code != stdhttp.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}

// -------- error mapping --------

func TestRespondErrorMapping(t *testing.T) {
	e := newEchoWithValidator()
	cases := []struct {
		err  error
		code int
	}{
		{loanDomain.ErrNotFound, stdhttp.StatusNotFound},
		{loanDomain.ErrRoleNotAllowed, stdhttp.StatusForbidden},
		{loanDomain.ErrPrerequisiteNotMet, stdhttp.StatusUnprocessableEntity},
		{loanDomain.ErrInvalidTransition, stdhttp.StatusConflict},
		{loanDomain.ErrConflict, stdhttp.StatusConflict},
		{loanDomain.ErrInvalidLoanTerms, stdhttp.StatusBadRequest},
		{loanDomain.ErrRemarksRequired, stdhttp.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(stdhttp.MethodPost, "/", nil), rec)
		if err := respondError(c, tc.err); err != nil {
			t.Fatalf("respondError(%v): %v", tc.err, err)
		}
		if rec.Code != tc.code {
			t.Fatalf("%v → %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}
