package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// CustomerRepository handles data access for storefront customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// List returns customers of a store with pagination and optional search on
// name or email.
func (r *CustomerRepository) List(ctx context.Context, storeID, search string, page, limit int) ([]models.Customer, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE store_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM customers `+baseWhere, storeID, search); err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	q := `SELECT * FROM customers ` + baseWhere + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &customers, q, storeID, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// GetByID returns a single customer.
func (r *CustomerRepository) GetByID(ctx context.Context, storeID, id string) (*models.Customer, error) {
	const q = `SELECT * FROM customers WHERE store_id = $1 AND id = $2 LIMIT 1`
	var c models.Customer
	if err := r.db.GetContext(ctx, &c, q, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	const q = `
        INSERT INTO customers (id, store_id, name, email, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, c.ID, c.StoreID, c.Name, c.Email, c.Phone, c.Address).Scan(&c.CreatedAt, &c.UpdatedAt))
}

// Upsert inserts a customer or, for a returning buyer matched by store and
// email, refreshes the contact fields and keeps the existing id.
func (r *CustomerRepository) Upsert(ctx context.Context, c *models.Customer) error {
	const q = `
        INSERT INTO customers (id, store_id, name, email, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (store_id, email) DO UPDATE SET
            name = EXCLUDED.name,
            phone = EXCLUDED.phone,
            address = EXCLUDED.address,
            updated_at = NOW()
        RETURNING id, created_at, updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, c.ID, c.StoreID, c.Name, c.Email, c.Phone, c.Address).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

// RecordPurchase bumps order statistics after a paid order.
func (r *CustomerRepository) RecordPurchase(ctx context.Context, storeID, id string, amount float64) error {
	const q = `
        UPDATE customers SET order_count = order_count + 1, total_spent = total_spent + $3, updated_at = NOW()
        WHERE store_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, storeID, id, amount)
	return err
}
