package model

import "time"

// BookingStatus enumerates the states of a booking.  Completed and
// cancelled are terminal: no transition ever leaves them.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingInUse     BookingStatus = "in_use"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Blocking reports whether a booking in this status claims exclusive
// use of its bike for the window [StartTime, EndTime).  Only pending
// and confirmed bookings block other reservations; an in-use ride has
// already claimed the physical bike and completed/cancelled bookings
// never block.
func (s BookingStatus) Blocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInUse, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking records a user's reservation of a bike for a half-open time
// window [StartTime, EndTime).  TotalCents is the price quoted at
// creation from the requested window and is never overwritten; when
// the ride ends, ActualEndTime and ActualTotalCents record what really
// happened so the original quote stays auditable.
//
// Fields:
//  ID               - primary key identifier.
//  Reference        - external reference code shown to the customer.
//  UserID           - owner of the booking.
//  BikeID           - bike being rented.
//  StartTime        - start of the requested window (UTC).
//  EndTime          - requested end of the window (UTC).
//  ActualEndTime    - when the ride actually ended (nil until then).
//  TotalCents       - quoted price for the requested window, in cents.
//  ActualTotalCents - price for the real elapsed time (nil until ride end).
//  Status           - current status, see BookingStatus.
//  CreatedAt        - creation timestamp.
//  UpdatedAt        - last update timestamp.
type Booking struct {
	ID               uint64        `json:"id"`
	Reference        string        `json:"reference"`
	UserID           uint64        `json:"user_id"`
	BikeID           uint64        `json:"bike_id"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	ActualEndTime    *time.Time    `json:"actual_end_time,omitempty"`
	TotalCents       uint32        `json:"total_cents"`
	ActualTotalCents *uint32       `json:"actual_total_cents,omitempty"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
