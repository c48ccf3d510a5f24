package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories of a store with their product counts.
func (r *CategoryRepository) List(ctx context.Context, storeID string) ([]models.Category, error) {
	const q = `
        SELECT c.*, COALESCE(pc.cnt, 0) AS product_count
        FROM categories c
        LEFT JOIN (
            SELECT category_id, COUNT(1) AS cnt FROM product_categories GROUP BY category_id
        ) pc ON pc.category_id = c.id
        WHERE c.store_id = $1
        ORDER BY c.name`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, q, storeID); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns a single category.
func (r *CategoryRepository) GetByID(ctx context.Context, storeID, id string) (*models.Category, error) {
	const q = `
        SELECT c.*, COALESCE(pc.cnt, 0) AS product_count
        FROM categories c
        LEFT JOIN (
            SELECT category_id, COUNT(1) AS cnt FROM product_categories GROUP BY category_id
        ) pc ON pc.category_id = c.id
        WHERE c.store_id = $1 AND c.id = $2 LIMIT 1`
	var c models.Category
	if err := r.db.GetContext(ctx, &c, q, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// HandleExists reports whether another category of the store uses the handle.
func (r *CategoryRepository) HandleExists(ctx context.Context, storeID, handle, excludeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM categories WHERE store_id = $1 AND handle = $2 AND id != $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, storeID, handle, excludeID); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	const q = `
        INSERT INTO categories (id, store_id, name, handle, billboard_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, c.ID, c.StoreID, c.Name, c.Handle, c.BillboardID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return translateError(err)
}

// Update rewrites a category.
func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	const q = `
        UPDATE categories SET name = $3, handle = $4, billboard_id = $5, updated_at = NOW()
        WHERE store_id = $1 AND id = $2
        RETURNING updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, c.StoreID, c.ID, c.Name, c.Handle, c.BillboardID).Scan(&c.UpdatedAt))
}

// Delete removes a category; product links cascade.
func (r *CategoryRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
