package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// BookingStore is the SQL implementation of booking.Store.  It owns
// the transactional critical section of the platform: the availability
// check and the paired booking/bike writes run inside one transaction
// with the bike row locked via SELECT ... FOR UPDATE, so two
// concurrent create requests for the same bike serialize and the
// check-then-act race cannot produce a double booking.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// DB exposes the underlying sql.DB for callers that need to compose
// transactions across repositories.
func (s *BookingStore) DB() *sql.DB { return s.db }

// Transact runs fn inside a transaction, committing when fn returns
// nil and rolling back otherwise.  fn's error is returned verbatim so
// domain sentinels survive the round trip.
func (s *BookingStore) Transact(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetBike loads a bike without locking.  Returns booking.ErrNotFound
// when no row matches.
func (s *BookingStore) GetBike(ctx context.Context, bikeID uint64) (*model.Bike, error) {
	return scanBike(s.db.QueryRowContext(ctx, selectBike+` WHERE id = ?`, bikeID))
}

// HasBlockingBooking reports whether any pending or confirmed booking
// for the bike overlaps the half-open window [start, end).  Touching
// windows (existing end == requested start) do not count.  Read-only,
// point-in-time; the create path repeats this check under the bike
// row lock.
func (s *BookingStore) HasBlockingBooking(ctx context.Context, bikeID uint64, start, end time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, blockingExistsQuery, bikeID, end.UTC(), start.UTC()).Scan(&exists)
	return exists, err
}

// blockingExistsQuery implements the half-open overlap test:
// existing.start < requested.end AND existing.end > requested.start.
const blockingExistsQuery = `SELECT EXISTS(
	SELECT 1 FROM bookings
	WHERE bike_id = ? AND status IN ('pending','confirmed')
	  AND start_time < ? AND end_time > ?)`

const selectBike = `SELECT id, name, brand, model, category, hourly_rate_cents,
	   status, description, rating, total_reviews, created_at, updated_at
FROM bikes`

const selectBooking = `SELECT id, reference, user_id, bike_id, start_time, end_time,
	   actual_end_time, total_cents, actual_total_cents, status, created_at, updated_at
FROM bookings`

// storeTx implements booking.Tx over a live *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

// GetBikeForUpdate loads the bike row with an exclusive lock that is
// held until the transaction ends.
func (t *storeTx) GetBikeForUpdate(ctx context.Context, bikeID uint64) (*model.Bike, error) {
	return scanBike(t.tx.QueryRowContext(ctx, selectBike+` WHERE id = ? FOR UPDATE`, bikeID))
}

// BlockingBookingExists runs the overlap test inside the transaction.
func (t *storeTx) BlockingBookingExists(ctx context.Context, bikeID uint64, start, end time.Time) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, blockingExistsQuery, bikeID, end.UTC(), start.UTC()).Scan(&exists)
	return exists, err
}

// InsertBooking persists the booking and queries the row back to
// populate the generated ID and DB-side timestamps.
func (t *storeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(reference, user_id, bike_id, start_time, end_time, total_cents, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		b.Reference, b.UserID, b.BikeID, b.StartTime.UTC(), b.EndTime.UTC(), b.TotalCents, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	stored, err := scanBooking(t.tx.QueryRowContext(ctx, selectBooking+` WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetBookingForUpdate loads the booking row with an exclusive lock.
func (t *storeTx) GetBookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return scanBooking(t.tx.QueryRowContext(ctx, selectBooking+` WHERE id = ? FOR UPDATE`, bookingID))
}

// UpdateBookingStatus sets the booking's status.
func (t *storeTx) UpdateBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, string(status), bookingID)
	return err
}

// CompleteBooking marks the booking completed and records the actual
// end time and actual price.  The quoted total column is not touched.
func (t *storeTx) CompleteBooking(ctx context.Context, bookingID uint64, actualEnd time.Time, actualTotalCents uint32) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'completed', actual_end_time = ?, actual_total_cents = ? WHERE id = ?`,
		actualEnd.UTC(), actualTotalCents, bookingID)
	return err
}

// SetBikeStatus updates the bike's cached status projection.
func (t *storeTx) SetBikeStatus(ctx context.Context, bikeID uint64, status model.BikeStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bikes SET status = ? WHERE id = ?`, string(status), bikeID)
	return err
}

// PatchBooking assembles an UPDATE from the non-nil patch fields.  An
// empty patch is a no-op; the service rejects those earlier.
func (t *storeTx) PatchBooking(ctx context.Context, bookingID uint64, patch booking.Patch) error {
	set, args := buildBookingPatch(patch)
	if len(set) == 0 {
		return nil
	}
	args = append(args, bookingID)
	q := `UPDATE bookings SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, args...)
	return err
}

// buildBookingPatch converts a patch into SET fragments and args.
// Split out so the assembly can be tested without a database.
func buildBookingPatch(patch booking.Patch) ([]string, []interface{}) {
	set := []string{}
	args := []interface{}{}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.StartTime != nil {
		set = append(set, "start_time = ?")
		args = append(args, patch.StartTime.UTC())
	}
	if patch.EndTime != nil {
		set = append(set, "end_time = ?")
		args = append(args, patch.EndTime.UTC())
	}
	if patch.ActualEndTime != nil {
		set = append(set, "actual_end_time = ?")
		args = append(args, patch.ActualEndTime.UTC())
	}
	if patch.TotalCents != nil {
		set = append(set, "total_cents = ?")
		args = append(args, *patch.TotalCents)
	}
	if patch.ActualTotalCents != nil {
		set = append(set, "actual_total_cents = ?")
		args = append(args, *patch.ActualTotalCents)
	}
	return set, args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBike reads one bike row, mapping sql.ErrNoRows to
// booking.ErrNotFound.
func scanBike(row rowScanner) (*model.Bike, error) {
	var b model.Bike
	var status string
	var description sql.NullString
	err := row.Scan(&b.ID, &b.Name, &b.Brand, &b.Model, &b.Category, &b.HourlyRateCents,
		&status, &description, &b.Rating, &b.TotalReviews, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	b.Status = model.BikeStatus(status)
	if description.Valid {
		d := description.String
		b.Description = &d
	}
	return &b, nil
}

// scanBooking reads one booking row, mapping sql.ErrNoRows to
// booking.ErrNotFound.  Times come back in UTC because the DSN pins
// parseTime and loc.
func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var status string
	var actualEnd sql.NullTime
	var actualTotal sql.NullInt64
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.BikeID, &b.StartTime, &b.EndTime,
		&actualEnd, &b.TotalCents, &actualTotal, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	if actualEnd.Valid {
		t := actualEnd.Time.UTC()
		b.ActualEndTime = &t
	}
	if actualTotal.Valid {
		c := uint32(actualTotal.Int64)
		b.ActualTotalCents = &c
	}
	return &b, nil
}
