package booking

import (
	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// Trigger names a lifecycle action applied to an existing booking.
type Trigger string

const (
	TriggerStartRide Trigger = "start_ride"
	TriggerEndRide   Trigger = "end_ride"
	TriggerCancel    Trigger = "cancel"
)

// Outcome is the result of a legal transition: the booking's next
// status and the bike status that must be written in the same
// transaction.  Every transition that frees the bike sets it back to
// available; every transition that claims it sets booked or in_use.
type Outcome struct {
	Booking model.BookingStatus
	Bike    model.BikeStatus
}

// transitions is the state machine table.  Rows absent from the table
// are illegal moves; in particular no trigger leaves a terminal
// status (completed, cancelled).
var transitions = map[model.BookingStatus]map[Trigger]Outcome{
	model.BookingPending: {
		TriggerCancel: {Booking: model.BookingCancelled, Bike: model.BikeAvailable},
	},
	model.BookingConfirmed: {
		TriggerStartRide: {Booking: model.BookingInUse, Bike: model.BikeInUse},
		TriggerCancel:    {Booking: model.BookingCancelled, Bike: model.BikeAvailable},
	},
	model.BookingInUse: {
		TriggerEndRide: {Booking: model.BookingCompleted, Bike: model.BikeAvailable},
	},
}

// Transition resolves the outcome of applying trg to a booking in the
// given status.  It returns ErrInvalidTransition when the move is not
// in the table; callers must then leave both records unchanged.
func Transition(current model.BookingStatus, trg Trigger) (Outcome, error) {
	if row, ok := transitions[current]; ok {
		if out, ok := row[trg]; ok {
			return out, nil
		}
	}
	return Outcome{}, ErrInvalidTransition
}

// Authorize checks that the actor may operate on a booking owned by
// ownerID.  Only the owner and admins pass; everyone else gets
// ErrForbidden regardless of the booking's state.
func Authorize(actor *model.User, ownerID uint64) error {
	if actor == nil {
		return ErrForbidden
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
