// Package repository implements the persistence layer over MySQL.
// This file defines sentinel error values reused across multiple
// repositories.  These let higher layers distinguish failure
// scenarios without inspecting driver errors: for example
// ErrEmailExists signals a duplicate registration, while
// ErrDuplicateReview signals a second review for the same
// (user, bike) pair.  Domain-level outcomes (not found, conflict,
// forbidden) use the sentinels from the booking package instead.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registering an email address that
// is already taken.  Handlers should translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateReview is returned when a user submits a second review
// for the same bike.  The uniqueness is enforced by the store's
// UNIQUE(user_id, bike_id) key.  Handlers should translate this into
// HTTP 409.
var ErrDuplicateReview = errors.New("review already exists")

// ErrBikeHasBookings is returned when deleting a bike that bookings
// still reference.  The restricting FK on bookings.bike_id rejects
// the delete; admins should set such bikes offline instead.  Handlers
// should translate this into HTTP 409.
var ErrBikeHasBookings = errors.New("bike has booking history")

// The MySQL driver exposes errors as strings, so the errno is matched
// textually to keep the repositories decoupled from driver internals.

// isDuplicateEntry reports whether err is MySQL errno 1062, a unique
// key violation.
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// isForeignKeyRestricted reports whether err is MySQL errno 1451, a
// delete rejected because child rows still reference the target.
func isForeignKeyRestricted(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1451")
}
