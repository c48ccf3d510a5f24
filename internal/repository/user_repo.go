package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// UserRepository handles data access for dashboard users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
        INSERT INTO users (id, email, password_hash, name, email_verified, two_factor_enabled)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, u.ID, u.Email, u.PasswordHash, u.Name, u.EmailVerified, u.TwoFactorEnabled).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	return translateError(err)
}

// GetByEmail returns a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE email = $1 LIMIT 1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// MarkEmailVerified flips the verification flag.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// UpdatePassword replaces the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	return err
}
