package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// DomainRepository handles data access for custom store domains.
type DomainRepository struct {
	db *sqlx.DB
}

// NewDomainRepository creates a new DomainRepository.
func NewDomainRepository(db *sqlx.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

// List returns all domains of a store.
func (r *DomainRepository) List(ctx context.Context, storeID string) ([]models.StoreDomain, error) {
	const q = `SELECT * FROM store_domains WHERE store_id = $1 ORDER BY created_at`
	var domains []models.StoreDomain
	if err := r.db.SelectContext(ctx, &domains, q, storeID); err != nil {
		return nil, err
	}
	return domains, nil
}

// GetByID returns a single domain record.
func (r *DomainRepository) GetByID(ctx context.Context, storeID, id string) (*models.StoreDomain, error) {
	const q = `SELECT * FROM store_domains WHERE store_id = $1 AND id = $2 LIMIT 1`
	var d models.StoreDomain
	if err := r.db.GetContext(ctx, &d, q, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a domain in pending status. A duplicate domain name across
// any store surfaces as a conflict.
func (r *DomainRepository) Create(ctx context.Context, d *models.StoreDomain) error {
	const q = `
        INSERT INTO store_domains (id, store_id, domain, status)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, d.ID, d.StoreID, d.Domain, d.Status).Scan(&d.CreatedAt, &d.UpdatedAt))
}

// UpdateStatus transitions a domain's verification status.
func (r *DomainRepository) UpdateStatus(ctx context.Context, storeID, id string, status models.DomainStatus) error {
	const q = `UPDATE store_domains SET status = $3, updated_at = NOW() WHERE store_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, storeID, id, string(status))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// Delete removes a domain registration.
func (r *DomainRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM store_domains WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
