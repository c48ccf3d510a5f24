package models

import "time"

// Category groups products within a store. Handle is unique per store.
type Category struct {
	ID          string    `db:"id" json:"id"`
	StoreID     string    `db:"store_id" json:"storeId"`
	Name        string    `db:"name" json:"name"`
	Handle      string    `db:"handle" json:"handle"`
	BillboardID *string   `db:"billboard_id" json:"billboardId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	// NumberOfProducts is populated via subquery on listings.
	NumberOfProducts int `db:"product_count" json:"numberOfProducts"`
}

// Billboard is a promotional banner assignable to categories.
type Billboard struct {
	ID        string    `db:"id" json:"id"`
	StoreID   string    `db:"store_id" json:"storeId"`
	Label     string    `db:"label" json:"label"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
