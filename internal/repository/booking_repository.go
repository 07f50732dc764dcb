package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// BookingView is a booking row joined with the bike's display fields,
// shaped for list endpoints.
type BookingView struct {
	model.Booking
	BikeName  string `json:"bike_name"`
	BikeBrand string `json:"bike_brand"`
}

// BookingRepo serves the read side of bookings: customer lists and
// admin browsing.  Writes go through BookingStore.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const selectBookingView = `SELECT b.id, b.reference, b.user_id, b.bike_id, b.start_time, b.end_time,
	   b.actual_end_time, b.total_cents, b.actual_total_cents, b.status, b.created_at, b.updated_at,
	   k.name, k.brand
FROM bookings b
JOIN bikes k ON k.id = b.bike_id`

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingView, error) {
	rows, err := r.db.QueryContext(ctx,
		selectBookingView+` WHERE b.user_id = ? ORDER BY b.start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingViews(rows)
}

// GetByIDForUser loads a single booking, enforcing ownership unless
// the caller is an admin.  A row owned by someone else reports
// booking.ErrNotFound rather than leaking its existence.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID uint64, actor *model.User) (*BookingView, error) {
	v, err := scanBookingView(r.db.QueryRowContext(ctx,
		selectBookingView+` WHERE b.id = ?`, bookingID))
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && v.UserID != actor.ID {
		return nil, booking.ErrNotFound
	}
	return v, nil
}

// AdminBookingQuery filters the admin booking list.
type AdminBookingQuery struct {
	Status   string
	BikeID   uint64
	UserID   uint64
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// buildAdminBookingFilter assembles the WHERE clause for ListAll.
func buildAdminBookingFilter(q AdminBookingQuery) (string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}

	if q.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, strings.ToLower(q.Status))
	}
	if q.BikeID > 0 {
		where = append(where, "b.bike_id = ?")
		args = append(args, q.BikeID)
	}
	if q.UserID > 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, q.UserID)
	}
	if !q.From.IsZero() {
		where = append(where, "b.end_time > ?")
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		where = append(where, "b.start_time < ?")
		args = append(args, q.To.UTC())
	}
	return strings.Join(where, " AND "), args
}

// ListAll returns a page of bookings across all users plus the total
// match count.
func (r *BookingRepo) ListAll(ctx context.Context, q AdminBookingQuery) ([]BookingView, int64, error) {
	cond, args := buildAdminBookingFilter(q)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	rows, err := r.db.QueryContext(ctx,
		selectBookingView+` WHERE `+cond+` ORDER BY b.start_time DESC LIMIT ? OFFSET ?`,
		append(append([]interface{}{}, args...), size, (page-1)*size)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	views, err := collectBookingViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func collectBookingViews(rows *sql.Rows) ([]BookingView, error) {
	out := make([]BookingView, 0)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanBookingView(row rowScanner) (*BookingView, error) {
	var (
		v           BookingView
		status      string
		actualEnd   sql.NullTime
		actualTotal sql.NullInt64
	)
	err := row.Scan(&v.ID, &v.Reference, &v.UserID, &v.BikeID, &v.StartTime, &v.EndTime,
		&actualEnd, &v.TotalCents, &actualTotal, &status, &v.CreatedAt, &v.UpdatedAt,
		&v.BikeName, &v.BikeBrand)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Status = model.BookingStatus(status)
	if actualEnd.Valid {
		t := actualEnd.Time
		v.ActualEndTime = &t
	}
	if actualTotal.Valid {
		c := uint32(actualTotal.Int64)
		v.ActualTotalCents = &c
	}
	return &v, nil
}
