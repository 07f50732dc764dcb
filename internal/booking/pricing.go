package booking

import (
	"math"
	"time"
)

// Price returns the rental charge in cents for the half-open window
// [start, end) at the given hourly rate.  The duration may cover
// fractional hours: two and a half hours at 1000 cents/hour costs
// 2500 cents.  The result is rounded to the nearest cent with halves
// rounded up (math.Round, half away from zero; all inputs are
// non-negative so this is plain half-up).  This rounding choice is
// part of the billing contract.
//
// When end is not strictly after start, ErrInvalidTimeRange is
// returned and the price is meaningless.
func Price(hourlyRateCents uint32, start, end time.Time) (uint32, error) {
	if !end.After(start) {
		return 0, ErrInvalidTimeRange
	}
	hours := end.Sub(start).Seconds() / 3600
	cents := math.Round(hours * float64(hourlyRateCents))
	if cents > math.MaxUint32 {
		return 0, ErrInvalidTimeRange
	}
	return uint32(cents), nil
}
