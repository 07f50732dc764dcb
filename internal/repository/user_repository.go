package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/bike-rental-booking/internal/booking"
	"github.com/iliyamo/bike-rental-booking/internal/model"
	"github.com/iliyamo/bike-rental-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const selectUser = `SELECT id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at
FROM users`

// Create hashes the password, inserts the user and returns its ID.
// A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password string, fullName, phone *string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, phone, role) VALUES (?,?,?,?,?)",
		email, hash, fullName, phone, string(role))
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id, mapping a missing row to
// booking.ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE id=? LIMIT 1", id))
}

// UpdateProfile sets the user's full name and phone.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=? WHERE id=?", fullName, phone, id)
	return err
}

func (r *UserRepo) scanUser(row rowScanner) (*model.User, error) {
	var (
		u        model.User
		role     string
		fullName sql.NullString
		phone    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &fullName, &phone, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return &u, nil
}
