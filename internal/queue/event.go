package queue

// Event type values published on the booking events queue.
const (
	EventBookingCreated   = "booking.created"
	EventRideStarted      = "ride.started"
	EventRideEnded        = "ride.ended"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking changes state.  It
// carries enough information for downstream consumers to log, notify
// or feed dashboards without querying the primary database.  All
// timestamps are RFC3339 in UTC.
type BookingEvent struct {
	Type             string  `json:"type"`
	BookingID        uint64  `json:"booking_id"`
	Reference        string  `json:"reference"`
	UserID           uint64  `json:"user_id"`
	BikeID           uint64  `json:"bike_id"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	ActualEndTime    string  `json:"actual_end_time,omitempty"`
	TotalCents       uint32  `json:"total_cents"`
	ActualTotalCents *uint32 `json:"actual_total_cents,omitempty"`
	Status           string  `json:"status"`
	OccurredAt       string  `json:"occurred_at"`
}
