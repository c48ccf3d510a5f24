package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// OrderRepository handles data access for orders. Line items are snapshots of
// product name and unit price at purchase time and carry no variant foreign
// keys, so product updates never invalidate historical orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns orders of a store with pagination and an optional status filter.
func (r *OrderRepository) List(ctx context.Context, storeID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE store_id = $1 AND ($2 = '' OR status = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM orders `+baseWhere, storeID, string(status)); err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	q := `SELECT * FROM orders ` + baseWhere + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &orders, q, storeID, string(status), limit, offset); err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// GetByID returns an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, storeID, id string) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE store_id = $1 AND id = $2 LIMIT 1`
	var o models.Order
	if err := r.db.GetContext(ctx, &o, q, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *models.Order) error {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`
	return r.db.SelectContext(ctx, &o.Items, q, o.ID)
}

// Create inserts an order together with its item snapshots.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const q = `
        INSERT INTO orders (id, store_id, customer_id, number, status, currency, total, is_paid, payment_ref, address, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, q, o.ID, o.StoreID, o.CustomerID, o.Number, o.Status,
		o.Currency, o.Total, o.IsPaid, o.PaymentRef, o.Address, o.Phone).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return translateError(err)
	}
	for i := range o.Items {
		item := &o.Items[i]
		const iq = `
            INSERT INTO order_items (order_id, product_name, variant_title, unit_price, quantity)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
		if err := tx.QueryRowxContext(ctx, iq, o.ID, item.ProductName, item.VariantTitle, item.UnitPrice, item.Quantity).Scan(&item.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
		item.OrderID = o.ID
	}
	return tx.Commit()
}

// UpdateStatus moves an order through its lifecycle.
func (r *OrderRepository) UpdateStatus(ctx context.Context, storeID, id string, status models.OrderStatus) error {
	const q = `UPDATE orders SET status = $3, is_paid = is_paid OR $3 = 'paid', updated_at = NOW() WHERE store_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, storeID, id, string(status))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
