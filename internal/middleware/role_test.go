package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeRoleGate(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("role gate returned error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	if rec := invokeRoleGate(t, "ADMIN", "ADMIN"); rec.Code != http.StatusOK {
		t.Errorf("ADMIN against admin gate: got %d, want 200", rec.Code)
	}
	if rec := invokeRoleGate(t, "CUSTOMER", "CUSTOMER", "ADMIN"); rec.Code != http.StatusOK {
		t.Errorf("CUSTOMER against booking gate: got %d, want 200", rec.Code)
	}
}

func TestRequireRoleDenies(t *testing.T) {
	if rec := invokeRoleGate(t, "CUSTOMER", "ADMIN"); rec.Code != http.StatusForbidden {
		t.Errorf("CUSTOMER against admin gate: got %d, want 403", rec.Code)
	}
	if rec := invokeRoleGate(t, nil, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Errorf("missing role claim: got %d, want 403", rec.Code)
	}
	if rec := invokeRoleGate(t, 42, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Errorf("non-string role claim: got %d, want 403", rec.Code)
	}
}
