package models

import "time"

// User is a dashboard user account.
type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Name             string    `db:"name" json:"name"`
	EmailVerified    bool      `db:"email_verified" json:"emailVerified"`
	TwoFactorEnabled bool      `db:"two_factor_enabled" json:"twoFactorEnabled"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}
