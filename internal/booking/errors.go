// Package booking holds the domain core of the rental platform: the
// error taxonomy, the price calculation, the interval overlap
// predicate and the booking/bike lifecycle state machine.  Everything
// here is free of SQL and HTTP; the repository package implements the
// Store contract and the service package drives the transitions.
package booking

import "errors"

// Sentinel errors returned by the booking core.  Handlers translate
// these into HTTP responses; anything else coming out of the core is
// an unexpected store failure and must be reported as an opaque
// internal error without leaking driver detail.
var (
	// ErrNotFound signals that a referenced bike, booking or user
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals that the requested window overlaps an
	// existing non-terminal reservation on the same bike, or that the
	// bike is parked outside the booking flow (maintenance, offline).
	ErrConflict = errors.New("booking conflict")

	// ErrInvalidTimeRange signals a window whose end is not strictly
	// after its start.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidTransition signals a lifecycle trigger that is not
	// legal for the booking's current status.  The attempt leaves
	// both the booking and the bike untouched.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrForbidden signals that the acting principal is neither the
	// booking's owner nor an admin.  It is checked before the state
	// machine, so a forbidden caller learns nothing about the
	// booking's status.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation signals malformed input fields, such as an
	// unknown status value in an admin patch.
	ErrValidation = errors.New("validation failed")
)
