package booking

import (
	"errors"
	"testing"
	"time"
)

func TestPrice(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rateCents uint32
		start     time.Time
		end       time.Time
		want      uint32
	}{
		{
			name:      "two and a half hours at 10.00/h",
			rateCents: 1000,
			start:     base,
			end:       base.Add(2*time.Hour + 30*time.Minute),
			want:      2500,
		},
		{
			name:      "exactly one hour",
			rateCents: 750,
			start:     base,
			end:       base.Add(time.Hour),
			want:      750,
		},
		{
			name:      "fractional cent rounds half up",
			rateCents: 999, // 30 min -> 499.5 cents
			start:     base,
			end:       base.Add(30 * time.Minute),
			want:      500,
		},
		{
			name:      "sub-hour ride",
			rateCents: 1200,
			start:     base,
			end:       base.Add(15 * time.Minute),
			want:      300,
		},
		{
			name:      "zero rate",
			rateCents: 0,
			start:     base,
			end:       base.Add(3 * time.Hour),
			want:      0,
		},
		{
			name:      "multi-day rental",
			rateCents: 500,
			start:     base,
			end:       base.Add(48 * time.Hour),
			want:      24000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.rateCents, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Price() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Price() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceInvalidRange(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, tt := range []struct {
		name string
		end  time.Time
	}{
		{name: "end equals start", end: base},
		{name: "end before start", end: base.Add(-time.Minute)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Price(1000, base, tt.end); !errors.Is(err, ErrInvalidTimeRange) {
				t.Errorf("Price() error = %v, want ErrInvalidTimeRange", err)
			}
		})
	}
}
