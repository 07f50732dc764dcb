package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/bike-rental-booking/internal/model"
)

// ReviewRepo persists bike reviews and keeps the denormalized rating
// columns on the bike in sync.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and recomputes the bike's rating and
// total_reviews inside one transaction.  A second review from the
// same user for the same bike maps to ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO reviews (user_id, bike_id, rating, comment) VALUES (?,?,?,?)",
		rv.UserID, rv.BikeID, rv.Rating, rv.Comment)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)

	_, err = tx.ExecContext(ctx, `UPDATE bikes SET
		rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE bike_id = ?),
		total_reviews = (SELECT COUNT(*) FROM reviews WHERE bike_id = ?)
		WHERE id = ?`, rv.BikeID, rv.BikeID, rv.BikeID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByBike returns reviews for a bike, newest first.
func (r *ReviewRepo) ListByBike(ctx context.Context, bikeID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, bike_id, rating, comment, created_at
		 FROM reviews WHERE bike_id = ? ORDER BY created_at DESC`, bikeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.BikeID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// HasCompletedBooking reports whether the user ever finished a ride on
// the bike.  Reviews are only accepted from riders.
func (r *ReviewRepo) HasCompletedBooking(ctx context.Context, userID, bikeID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = ? AND bike_id = ? AND status = 'completed')`,
		userID, bikeID).Scan(&exists)
	return exists, err
}
