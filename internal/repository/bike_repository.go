package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// BikeRepo manages persistence for bikes.
type BikeRepo struct {
	db *sql.DB
}

// NewBikeRepo constructs a BikeRepo with the given DB handle.
func NewBikeRepo(db *sql.DB) *BikeRepo { return &BikeRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *BikeRepo) DB() *sql.DB { return r.db }

// Create inserts a new bike and assigns the generated ID back to the
// struct.  Status defaults to available in the DB; created_at and
// updated_at are populated by querying the row back.
func (r *BikeRepo) Create(ctx context.Context, b *model.Bike) error {
	const q = `INSERT INTO bikes (name, brand, model, category, hourly_rate_cents, description)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Brand, b.Model, b.Category, b.HourlyRateCents, b.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	stored, err := scanBike(r.db.QueryRowContext(ctx, selectBike+` WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetByID retrieves a bike by its ID.  Returns booking.ErrNotFound
// when there is no matching row.
func (r *BikeRepo) GetByID(ctx context.Context, id uint64) (*model.Bike, error) {
	return scanBike(r.db.QueryRowContext(ctx, selectBike+` WHERE id = ?`, id))
}

// Update overwrites the bike's descriptive fields and hourly rate.
// The status column is not touched here.
func (r *BikeRepo) Update(ctx context.Context, b *model.Bike) (int64, error) {
	const q = `UPDATE bikes SET name = ?, brand = ?, model = ?, category = ?,
			   hourly_rate_cents = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Brand, b.Model, b.Category,
		b.HourlyRateCents, b.Description, b.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatus writes the bike status directly.  Admin-only path used to
// park a bike (maintenance, offline) or bring it back; lifecycle
// transitions go through the booking store instead.
func (r *BikeRepo) SetStatus(ctx context.Context, id uint64, status model.BikeStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE bikes SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a bike.  Bookings reference bikes with a restricting
// FK, so deleting a bike with booking history returns
// ErrBikeHasBookings; admins are expected to set such bikes offline
// instead.
func (r *BikeRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bikes WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestricted(err) {
			return 0, ErrBikeHasBookings
		}
		return 0, err
	}
	return res.RowsAffected()
}

// BikeSearchQuery defines filters and pagination for browsing bikes.
// AvailableFrom/AvailableTo, when both set, restrict the result to
// bikes with no pending or confirmed booking overlapping the window.
type BikeSearchQuery struct {
	Brand         string
	Category      string
	MaxRateCents  uint32
	AvailableFrom time.Time
	AvailableTo   time.Time
	Page          int
	PageSize      int
}

// buildBikeSearch assembles the WHERE clause and args for a search.
// Split out of Search so the assembly logic is testable without a
// database.
func buildBikeSearch(q BikeSearchQuery) (string, []interface{}) {
	where := []string{"status NOT IN ('maintenance','reserved','offline')"}
	args := []interface{}{}

	if q.Brand != "" {
		where = append(where, "LOWER(brand) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Brand)+"%")
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) = ?")
		args = append(args, strings.ToLower(q.Category))
	}
	if q.MaxRateCents > 0 {
		where = append(where, "hourly_rate_cents <= ?")
		args = append(args, q.MaxRateCents)
	}
	if !q.AvailableFrom.IsZero() && !q.AvailableTo.IsZero() {
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM bookings bk
			WHERE bk.bike_id = bikes.id AND bk.status IN ('pending','confirmed')
			  AND bk.start_time < ? AND bk.end_time > ?)`)
		args = append(args, q.AvailableTo.UTC(), q.AvailableFrom.UTC())
	}
	return strings.Join(where, " AND "), args
}

// Search returns a page of bikes matching the query plus the total
// match count for pagination.
func (r *BikeRepo) Search(ctx context.Context, q BikeSearchQuery) ([]model.Bike, int64, error) {
	cond, args := buildBikeSearch(q)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bikes WHERE `+cond, args...).Scan(&total); err != nil {
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
	listQ := selectBike + ` WHERE ` + cond + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	listArgs := append(append([]interface{}{}, args...), size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bikes := make([]model.Bike, 0)
	for rows.Next() {
		b, err := scanBike(rows)
		if err != nil {
			return nil, 0, err
		}
		bikes = append(bikes, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return bikes, total, nil
}
