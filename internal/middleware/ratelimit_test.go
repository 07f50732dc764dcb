package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/config"
)

func limiterContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(target)
	return c
}

func TestLimiterKeySeparatesRidersAndRoutes(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	browse := limiterContext(http.MethodGet, "/v1/bikes")
	book := limiterContext(http.MethodPost, "/v1/bookings")
	book.Set("user_id", float64(7))

	kBrowse := limiterKey(cfg, browse)
	kBook := limiterKey(cfg, book)
	if kBrowse == kBook {
		t.Fatalf("browse and booking requests share key %q", kBrowse)
	}
	if !strings.HasPrefix(kBrowse, "rl:") || !strings.HasPrefix(kBook, "rl:") {
		t.Errorf("keys missing prefix: %q, %q", kBrowse, kBook)
	}
	if !strings.Contains(kBrowse, "anon") {
		t.Errorf("anonymous browse key %q should fall back to the anon subject", kBrowse)
	}
	if !strings.Contains(kBook, ":7:") && !strings.HasSuffix(kBook, ":7") && !strings.Contains(kBook, "user:7") {
		t.Errorf("booking key %q should carry the rider id", kBook)
	}

	// A second rider on the same IP and route gets their own bucket.
	other := limiterContext(http.MethodPost, "/v1/bookings")
	other.Set("user_id", float64(8))
	if limiterKey(cfg, other) == kBook {
		t.Error("two riders share one booking bucket")
	}
}

func TestLimiterSubjectClaimTypes(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want string
	}{
		{"jwt float64", float64(12), "12"},
		{"uint64", uint64(12), "12"},
		{"int64", int64(12), "12"},
		{"string", "12", "12"},
		{"unset", nil, "anon"},
		{"empty string", "", "anon"},
	}
	for _, tc := range cases {
		c := limiterContext(http.MethodGet, "/v1/bikes")
		if tc.val != nil {
			c.Set("user_id", tc.val)
		}
		if got := limiterSubject(c); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
