package booking

import "time"

// ValidWindow reports whether [start, end) is a usable booking window,
// i.e. end is strictly after start.  Callers must reject invalid
// windows before consulting availability; the overlap predicate's
// result is meaningless for them.
func ValidWindow(start, end time.Time) bool {
	return end.After(start)
}

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect.  Touching windows, where one ends exactly
// when the other starts, do not overlap: back-to-back rentals on the
// same bike are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
