package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// BillboardRepository handles data access for billboards.
type BillboardRepository struct {
	db *sqlx.DB
}

// NewBillboardRepository creates a new BillboardRepository.
func NewBillboardRepository(db *sqlx.DB) *BillboardRepository {
	return &BillboardRepository{db: db}
}

// List returns all billboards of a store, newest first.
func (r *BillboardRepository) List(ctx context.Context, storeID string) ([]models.Billboard, error) {
	const q = `SELECT * FROM billboards WHERE store_id = $1 ORDER BY created_at DESC`
	var billboards []models.Billboard
	if err := r.db.SelectContext(ctx, &billboards, q, storeID); err != nil {
		return nil, err
	}
	return billboards, nil
}

// GetByID returns a single billboard.
func (r *BillboardRepository) GetByID(ctx context.Context, storeID, id string) (*models.Billboard, error) {
	const q = `SELECT * FROM billboards WHERE store_id = $1 AND id = $2 LIMIT 1`
	var b models.Billboard
	if err := r.db.GetContext(ctx, &b, q, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts a billboard.
func (r *BillboardRepository) Create(ctx context.Context, b *models.Billboard) error {
	const q = `
        INSERT INTO billboards (id, store_id, label, image_url)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, b.ID, b.StoreID, b.Label, b.ImageURL).Scan(&b.CreatedAt, &b.UpdatedAt))
}

// Update rewrites a billboard.
func (r *BillboardRepository) Update(ctx context.Context, b *models.Billboard) error {
	const q = `
        UPDATE billboards SET label = $3, image_url = $4, updated_at = NOW()
        WHERE store_id = $1 AND id = $2
        RETURNING updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, b.StoreID, b.ID, b.Label, b.ImageURL).Scan(&b.UpdatedAt))
}

// Delete removes a billboard; categories pointing at it fall back to null.
func (r *BillboardRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM billboards WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
