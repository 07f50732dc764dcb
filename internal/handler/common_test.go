package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", booking.ErrNotFound, http.StatusNotFound},
		{"conflict", booking.ErrConflict, http.StatusConflict},
		{"invalid transition", booking.ErrInvalidTransition, http.StatusConflict},
		{"invalid time range", booking.ErrInvalidTimeRange, http.StatusBadRequest},
		{"validation", booking.ErrValidation, http.StatusBadRequest},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden},
		{"unexpected", errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			if err := domainError(c, tt.err); err != nil {
				t.Fatalf("domainError returned %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDomainErrorHidesInternals(t *testing.T) {
	c, rec := newTestContext(t)
	if err := domainError(c, errors.New("dial tcp 10.0.0.5:3306: timeout")); err != nil {
		t.Fatalf("domainError returned %v", err)
	}
	if body := rec.Body.String(); body != `{"error":"internal error"}`+"\n" {
		t.Errorf("internal detail leaked: %s", body)
	}
}

func TestCurrentUserClaimTypes(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"string claim", "42", 42, true},
		{"uint64", uint64(7), 7, true},
		{"missing", nil, 0, false},
		{"garbage", "abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, ok := currentUser(c)
			if got != tt.want || ok != tt.ok {
				t.Errorf("currentUser() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
