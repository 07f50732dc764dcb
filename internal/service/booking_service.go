// Package service composes the booking domain core with the store and
// the message broker.  BookingService is the single entry point the
// HTTP layer calls for every booking mutation; handlers only translate
// its typed errors into status codes.
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
	"github.com/iliyamo/bike-rental-booking/internal/queue"
)

// UserDirectory resolves acting principals for ownership and role
// checks.  Implemented by repository.UserRepo; tests supply a map.
type UserDirectory interface {
	// GetByID returns the user or booking.ErrNotFound.
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Publisher delivers booking lifecycle events to the broker.  Publish
// failures must never fail the request that triggered them.
type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService implements the booking orchestration: create, start,
// end, cancel and admin override.  Every mutation runs its
// availability checks and paired booking/bike writes inside a single
// store transaction, so two concurrent requests for the same bike
// serialize behind the bike row lock and double-booking cannot occur.
type BookingService struct {
	store booking.Store
	users UserDirectory
	pub   Publisher

	// now supplies the clock for actual end times; swapped in tests.
	now func() time.Time
}

// NewBookingService constructs a BookingService.  store and users must
// be non-nil; pub may be nil when no broker is configured.
func NewBookingService(store booking.Store, users UserDirectory, pub Publisher) *BookingService {
	if store == nil || users == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		store: store,
		users: users,
		pub:   pub,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking reserves the bike for [start, end) on behalf of
// userID.  The availability check and the paired booking/bike writes
// run in one transaction with the bike row locked, closing the
// check-then-act race.  The booking is created directly in confirmed
// status with the price quoted from the requested window.
//
// Errors: booking.ErrValidation (missing bike reference),
// booking.ErrInvalidTimeRange (end <= start), booking.ErrNotFound
// (bike absent), booking.ErrConflict (overlapping reservation or bike
// out of service).
func (s *BookingService) CreateBooking(ctx context.Context, userID, bikeID uint64, start, end time.Time) (*model.Booking, error) {
	if bikeID == 0 || userID == 0 {
		return nil, booking.ErrValidation
	}
	if !booking.ValidWindow(start, end) {
		return nil, booking.ErrInvalidTimeRange
	}
	start = start.UTC()
	end = end.UTC()

	var created *model.Booking
	err := s.store.Transact(ctx, func(tx booking.Tx) error {
		bike, err := tx.GetBikeForUpdate(ctx, bikeID)
		if err != nil {
			return err
		}
		if !bike.Status.Bookable() {
			return booking.ErrConflict
		}
		blocked, err := tx.BlockingBookingExists(ctx, bikeID, start, end)
		if err != nil {
			return err
		}
		if blocked {
			return booking.ErrConflict
		}
		total, err := booking.Price(bike.HourlyRateCents, start, end)
		if err != nil {
			return err
		}
		b := &model.Booking{
			Reference:  uuid.NewString(),
			UserID:     userID,
			BikeID:     bikeID,
			StartTime:  start,
			EndTime:    end,
			TotalCents: total,
			Status:     model.BookingConfirmed,
		}
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		if err := tx.SetBikeStatus(ctx, bikeID, model.BikeBooked); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventBookingCreated, created)
	return created, nil
}

// StartRide moves a confirmed booking to in_use and the bike along
// with it.  Only the booking's owner or an admin may start the ride.
func (s *BookingService) StartRide(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	b, err := s.applyTransition(ctx, bookingID, actorID, booking.TriggerStartRide)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventRideStarted, b)
	return b, nil
}

// EndRide completes an in_use booking, frees the bike and records the
// actual end time together with the price for the real elapsed time.
// The quote computed at creation is left untouched; no reconciliation
// between the two amounts is performed.
func (s *BookingService) EndRide(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	var updated *model.Booking
	err = s.store.Transact(ctx, func(tx booking.Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := booking.Authorize(actor, b.UserID); err != nil {
			return err
		}
		out, err := booking.Transition(b.Status, booking.TriggerEndRide)
		if err != nil {
			return err
		}
		bike, err := tx.GetBikeForUpdate(ctx, b.BikeID)
		if err != nil {
			return err
		}
		actualEnd := s.now()
		// A ride ended at or before its scheduled start is billed
		// nothing rather than rejected.
		var actualTotal uint32
		if booking.ValidWindow(b.StartTime, actualEnd) {
			if actualTotal, err = booking.Price(bike.HourlyRateCents, b.StartTime, actualEnd); err != nil {
				return err
			}
		}
		if err := tx.CompleteBooking(ctx, b.ID, actualEnd, actualTotal); err != nil {
			return err
		}
		if err := tx.SetBikeStatus(ctx, b.BikeID, out.Bike); err != nil {
			return err
		}
		b.Status = out.Booking
		b.ActualEndTime = &actualEnd
		b.ActualTotalCents = &actualTotal
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventRideEnded, updated)
	return updated, nil
}

// CancelBooking cancels a pending or confirmed booking and frees the
// bike.  Cancelling an already terminal booking fails with
// booking.ErrInvalidTransition and performs no writes.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	b, err := s.applyTransition(ctx, bookingID, actorID, booking.TriggerCancel)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventBookingCancelled, b)
	return b, nil
}

// applyTransition loads the booking under lock, authorizes the actor,
// resolves the transition table and writes the paired statuses.
func (s *BookingService) applyTransition(ctx context.Context, bookingID, actorID uint64, trg booking.Trigger) (*model.Booking, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	var updated *model.Booking
	err = s.store.Transact(ctx, func(tx booking.Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := booking.Authorize(actor, b.UserID); err != nil {
			return err
		}
		out, err := booking.Transition(b.Status, trg)
		if err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(ctx, b.ID, out.Booking); err != nil {
			return err
		}
		if err := tx.SetBikeStatus(ctx, b.BikeID, out.Bike); err != nil {
			return err
		}
		b.Status = out.Booking
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdminUpdateBooking applies an arbitrary field patch on behalf of an
// admin.  The caller's role has already been enforced by middleware.
// The bike's status is deliberately not synced; an operator patching
// rows is expected to fix the bike separately if needed.
//
// Errors: booking.ErrNotFound, booking.ErrValidation (unknown status
// value, empty patch, or a patched window with end <= start).
func (s *BookingService) AdminUpdateBooking(ctx context.Context, bookingID uint64, patch booking.Patch) (*model.Booking, error) {
	if patch.Empty() {
		return nil, booking.ErrValidation
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, booking.ErrValidation
	}
	var updated *model.Booking
	err := s.store.Transact(ctx, func(tx booking.Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		start, end := b.StartTime, b.EndTime
		if patch.StartTime != nil {
			start = patch.StartTime.UTC()
		}
		if patch.EndTime != nil {
			end = patch.EndTime.UTC()
		}
		if !booking.ValidWindow(start, end) {
			return booking.ErrValidation
		}
		if err := tx.PatchBooking(ctx, b.ID, patch); err != nil {
			return err
		}
		b.StartTime, b.EndTime = start, end
		if patch.Status != nil {
			b.Status = *patch.Status
		}
		if patch.ActualEndTime != nil {
			b.ActualEndTime = patch.ActualEndTime
		}
		if patch.TotalCents != nil {
			b.TotalCents = *patch.TotalCents
		}
		if patch.ActualTotalCents != nil {
			b.ActualTotalCents = patch.ActualTotalCents
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// IsBikeAvailable reports whether the bike can be booked for
// [start, end).  Read-only: it takes no locks and creates nothing, so
// a true result is only a point-in-time answer; CreateBooking repeats
// the check transactionally.
func (s *BookingService) IsBikeAvailable(ctx context.Context, bikeID uint64, start, end time.Time) (bool, error) {
	if !booking.ValidWindow(start, end) {
		return false, booking.ErrInvalidTimeRange
	}
	bike, err := s.store.GetBike(ctx, bikeID)
	if err != nil {
		return false, err
	}
	if !bike.Status.Bookable() {
		return false, nil
	}
	blocked, err := s.store.HasBlockingBooking(ctx, bikeID, start.UTC(), end.UTC())
	if err != nil {
		return false, err
	}
	return !blocked, nil
}

// publish sends a lifecycle event to the broker.  Failures are logged
// and swallowed; eventing must never fail the booking operation.
func (s *BookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	if s.pub == nil || b == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:             eventType,
		BookingID:        b.ID,
		Reference:        b.Reference,
		UserID:           b.UserID,
		BikeID:           b.BikeID,
		StartTime:        b.StartTime.UTC().Format(time.RFC3339),
		EndTime:          b.EndTime.UTC().Format(time.RFC3339),
		TotalCents:       b.TotalCents,
		ActualTotalCents: b.ActualTotalCents,
		Status:           string(b.Status),
		OccurredAt:       s.now().Format(time.RFC3339),
	}
	if b.ActualEndTime != nil {
		ev.ActualEndTime = b.ActualEndTime.UTC().Format(time.RFC3339)
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		log.Printf("booking-service: publish %s failed: %v", eventType, err)
	}
}
