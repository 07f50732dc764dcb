package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
)

func TestBuildBikeSearchNoFilters(t *testing.T) {
	cond, args := buildBikeSearch(BikeSearchQuery{})
	if !strings.Contains(cond, "status NOT IN") {
		t.Fatalf("base condition missing, got %q", cond)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %d", len(args))
	}
}

func TestBuildBikeSearchAllFilters(t *testing.T) {
	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	to := from.Add(2 * time.Hour)
	cond, args := buildBikeSearch(BikeSearchQuery{
		Brand:         "Trek",
		Category:      "Mountain",
		MaxRateCents:  5000,
		AvailableFrom: from,
		AvailableTo:   to,
	})
	for _, want := range []string{"LOWER(brand) LIKE ?", "LOWER(category) = ?", "hourly_rate_cents <= ?", "NOT EXISTS"} {
		if !strings.Contains(cond, want) {
			t.Errorf("condition missing %q: %q", want, cond)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if args[0] != "%trek%" || args[1] != "mountain" {
		t.Fatalf("brand/category args not normalized: %v", args[:2])
	}
	// Overlap test binds the window end first, then the start.
	if !args[3].(time.Time).Equal(to) || !args[4].(time.Time).Equal(from) {
		t.Fatalf("window args out of order: %v", args[3:])
	}
}

func TestBuildAdminBookingFilter(t *testing.T) {
	cond, args := buildAdminBookingFilter(AdminBookingQuery{
		Status: "Confirmed",
		BikeID: 7,
		UserID: 3,
	})
	for _, want := range []string{"b.status = ?", "b.bike_id = ?", "b.user_id = ?"} {
		if !strings.Contains(cond, want) {
			t.Errorf("condition missing %q: %q", want, cond)
		}
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[0] != "confirmed" {
		t.Fatalf("status not lowercased: %v", args[0])
	}
}

func TestBuildBookingPatch(t *testing.T) {
	st := model.BookingCancelled
	cents := uint32(1234)
	set, args := buildBookingPatch(booking.Patch{Status: &st, TotalCents: &cents})
	if len(set) != 2 || len(args) != 2 {
		t.Fatalf("expected 2 assignments, got set=%v args=%v", set, args)
	}
	if set[0] != "status = ?" || args[0] != "cancelled" {
		t.Fatalf("status assignment wrong: %v %v", set[0], args[0])
	}

	set, args = buildBookingPatch(booking.Patch{})
	if len(set) != 0 || len(args) != 0 {
		t.Fatalf("empty patch should produce nothing, got %v %v", set, args)
	}
}
