package models

import "time"

// MemberRole enumerates store membership roles.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// Store is a tenant: the unit of ownership for catalog, orders, team
// membership, and billing.
type Store struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Currency  string    `db:"currency" json:"currency"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StoreMember links a user to a store with a role.
type StoreMember struct {
	StoreID   string     `db:"store_id" json:"storeId"`
	UserID    string     `db:"user_id" json:"userId"`
	Role      MemberRole `db:"role" json:"role"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`

	// Joined from users for member listings.
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
}
