package booking

import (
	"errors"
	"testing"

	"github.com/iliyamo/bike-rental-booking/internal/model"
)

func TestTransitionLegalMoves(t *testing.T) {
	tests := []struct {
		name        string
		current     model.BookingStatus
		trigger     Trigger
		wantBooking model.BookingStatus
		wantBike    model.BikeStatus
	}{
		{name: "start confirmed ride", current: model.BookingConfirmed, trigger: TriggerStartRide, wantBooking: model.BookingInUse, wantBike: model.BikeInUse},
		{name: "end ride in use", current: model.BookingInUse, trigger: TriggerEndRide, wantBooking: model.BookingCompleted, wantBike: model.BikeAvailable},
		{name: "cancel confirmed", current: model.BookingConfirmed, trigger: TriggerCancel, wantBooking: model.BookingCancelled, wantBike: model.BikeAvailable},
		{name: "cancel pending", current: model.BookingPending, trigger: TriggerCancel, wantBooking: model.BookingCancelled, wantBike: model.BikeAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transition(tt.current, tt.trigger)
			if err != nil {
				t.Fatalf("Transition(%s, %s) error = %v", tt.current, tt.trigger, err)
			}
			if out.Booking != tt.wantBooking {
				t.Errorf("booking status = %s, want %s", out.Booking, tt.wantBooking)
			}
			if out.Bike != tt.wantBike {
				t.Errorf("bike status = %s, want %s", out.Bike, tt.wantBike)
			}
		})
	}
}

func TestTransitionIllegalMoves(t *testing.T) {
	tests := []struct {
		name    string
		current model.BookingStatus
		trigger Trigger
	}{
		{name: "start pending", current: model.BookingPending, trigger: TriggerStartRide},
		{name: "start completed", current: model.BookingCompleted, trigger: TriggerStartRide},
		{name: "start cancelled", current: model.BookingCancelled, trigger: TriggerStartRide},
		{name: "start already in use", current: model.BookingInUse, trigger: TriggerStartRide},
		{name: "end confirmed", current: model.BookingConfirmed, trigger: TriggerEndRide},
		{name: "end pending", current: model.BookingPending, trigger: TriggerEndRide},
		{name: "end completed", current: model.BookingCompleted, trigger: TriggerEndRide},
		{name: "cancel in use", current: model.BookingInUse, trigger: TriggerCancel},
		{name: "cancel completed", current: model.BookingCompleted, trigger: TriggerCancel},
		{name: "cancel cancelled again", current: model.BookingCancelled, trigger: TriggerCancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Transition(tt.current, tt.trigger); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s, %s) error = %v, want ErrInvalidTransition", tt.current, tt.trigger, err)
			}
		})
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingCompleted, model.BookingCancelled} {
		for _, trg := range []Trigger{TriggerStartRide, TriggerEndRide, TriggerCancel} {
			if _, err := Transition(status, trg); err == nil {
				t.Errorf("Transition(%s, %s) succeeded, terminal states must be final", status, trg)
			}
		}
	}
}

func TestAuthorize(t *testing.T) {
	owner := &model.User{ID: 7, Role: model.RoleCustomer}
	stranger := &model.User{ID: 8, Role: model.RoleCustomer}
	admin := &model.User{ID: 9, Role: model.RoleAdmin}

	if err := Authorize(owner, 7); err != nil {
		t.Errorf("owner should be authorized, got %v", err)
	}
	if err := Authorize(admin, 7); err != nil {
		t.Errorf("admin should be authorized, got %v", err)
	}
	if err := Authorize(stranger, 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger error = %v, want ErrForbidden", err)
	}
	if err := Authorize(nil, 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("nil actor error = %v, want ErrForbidden", err)
	}
}
