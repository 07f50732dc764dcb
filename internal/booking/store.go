package booking

import (
	"context"
	"time"

	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// Store is the transactional boundary the orchestrator speaks to.
// The SQL implementation lives in the repository package; tests use an
// in-memory implementation whose Transact serializes callers, which
// models the same isolation the database provides.
type Store interface {
	// Transact runs fn within one transaction.  If fn returns an
	// error the transaction is rolled back and the error returned
	// verbatim; otherwise it is committed.  All writes performed
	// through the Tx become visible to other readers atomically, so
	// no one ever observes a booking flipped without its bike.
	Transact(ctx context.Context, fn func(Tx) error) error

	// GetBike loads a bike outside any transaction.  Returns
	// ErrNotFound when the bike does not exist.
	GetBike(ctx context.Context, bikeID uint64) (*model.Bike, error)

	// HasBlockingBooking reports whether any booking in a blocking
	// status (pending, confirmed) overlaps [start, end) for the bike.
	// Read-only, point-in-time; mutating flows must use the Tx
	// variant instead.
	HasBlockingBooking(ctx context.Context, bikeID uint64, start, end time.Time) (bool, error)
}

// Tx is the set of operations available inside one transaction.  The
// implementation must keep the bike row returned by GetBikeForUpdate
// locked until the transaction ends, so concurrent bookings for the
// same bike serialize behind it and the check-then-create race cannot
// manifest.
type Tx interface {
	// GetBikeForUpdate loads the bike row with an exclusive row lock.
	// Returns ErrNotFound when the bike does not exist.
	GetBikeForUpdate(ctx context.Context, bikeID uint64) (*model.Bike, error)

	// BlockingBookingExists reports whether any pending or confirmed
	// booking for the bike overlaps the half-open window [start, end).
	BlockingBookingExists(ctx context.Context, bikeID uint64, start, end time.Time) (bool, error)

	// InsertBooking persists a new booking and fills in its generated
	// ID and timestamps.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// GetBookingForUpdate loads a booking row with an exclusive row
	// lock.  Returns ErrNotFound when the booking does not exist.
	GetBookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error)

	// UpdateBookingStatus sets the booking's status.
	UpdateBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error

	// CompleteBooking marks the booking completed and records the
	// actual end time and actual price.  The quoted total is left
	// untouched.
	CompleteBooking(ctx context.Context, bookingID uint64, actualEnd time.Time, actualTotalCents uint32) error

	// SetBikeStatus updates the bike's cached status projection.
	SetBikeStatus(ctx context.Context, bikeID uint64, status model.BikeStatus) error

	// PatchBooking applies an admin field patch.  Nil fields are left
	// untouched.  The bike row is deliberately not synced.
	PatchBooking(ctx context.Context, bookingID uint64, patch Patch) error
}

// Patch lists the booking fields an admin override may modify.  A nil
// pointer leaves the field as it is.
type Patch struct {
	Status           *model.BookingStatus
	StartTime        *time.Time
	EndTime          *time.Time
	ActualEndTime    *time.Time
	TotalCents       *uint32
	ActualTotalCents *uint32
}

// Empty reports whether the patch modifies nothing.
func (p Patch) Empty() bool {
	return p.Status == nil && p.StartTime == nil && p.EndTime == nil &&
		p.ActualEndTime == nil && p.TotalCents == nil && p.ActualTotalCents == nil
}
