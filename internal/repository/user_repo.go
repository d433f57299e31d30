// Package repository contains the SQL data access layer. Methods with a Tx
// suffix run inside a caller-provided transaction; everything else uses the
// pooled connection directly. All timestamps are stored in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/driftdock/marina-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// isDup reports whether err is a MySQL duplicate-key violation (error 1062).
func isDup(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a user with the given bcrypt hash and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, phone, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, phone, role) VALUES (?,?,?,?,?)",
		username, email, passwordHash, phone, role)
	if err != nil {
		if isDup(err) {
			if strings.Contains(err.Error(), "uq_users_username") {
				return 0, ErrUsernameExists
			}
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

const userCols = "id,username,email,password_hash,phone,role,is_active,created_at,updated_at"

func (r *UserRepo) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, model.ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile changes the mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, phone string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET phone=? WHERE id=?", phone, id)
	return err
}

// UpdatePassword swaps the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// SetRoleTx promotes or demotes a user inside a transaction. Role changes
// always ride along with an onboarding decision, so no standalone variant.
func (r *UserRepo) SetRoleTx(ctx context.Context, tx *sql.Tx, id uint64, role string) error {
	res, err := tx.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Deactivate soft-disables a user account.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}
