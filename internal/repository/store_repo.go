package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// StoreRepository handles data access for stores and their memberships.
type StoreRepository struct {
	db *sqlx.DB
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db *sqlx.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a store and its owner membership in one transaction.
func (r *StoreRepository) Create(ctx context.Context, s *models.Store) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const q = `
        INSERT INTO stores (id, name, currency, owner_id)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, q, s.ID, s.Name, s.Currency, s.OwnerID).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return translateError(err)
	}
	const mq = `INSERT INTO store_members (store_id, user_id, role) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, mq, s.ID, s.OwnerID, models.RoleOwner); err != nil {
		_ = tx.Rollback()
		return translateError(err)
	}
	return tx.Commit()
}

// GetByID returns a store by id.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	const q = `SELECT * FROM stores WHERE id = $1 LIMIT 1`
	var s models.Store
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListForUser returns all stores the user is a member of.
func (r *StoreRepository) ListForUser(ctx context.Context, userID string) ([]models.Store, error) {
	const q = `
        SELECT s.* FROM stores s
        JOIN store_members m ON m.store_id = s.id
        WHERE m.user_id = $1
        ORDER BY s.created_at`
	var stores []models.Store
	if err := r.db.SelectContext(ctx, &stores, q, userID); err != nil {
		return nil, err
	}
	return stores, nil
}

// Update renames a store or changes its currency.
func (r *StoreRepository) Update(ctx context.Context, s *models.Store) error {
	const q = `UPDATE stores SET name = $2, currency = $3, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, s.ID, s.Name, s.Currency).Scan(&s.UpdatedAt))
}

// Delete removes a store; all owned entities cascade.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// GetMember returns the membership of a user in a store, or ErrNotFound.
func (r *StoreRepository) GetMember(ctx context.Context, storeID, userID string) (*models.StoreMember, error) {
	const q = `
        SELECT m.store_id, m.user_id, m.role, m.created_at, u.email, u.name
        FROM store_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.store_id = $1 AND m.user_id = $2`
	var m models.StoreMember
	if err := r.db.GetContext(ctx, &m, q, storeID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMembers returns all members of a store.
func (r *StoreRepository) ListMembers(ctx context.Context, storeID string) ([]models.StoreMember, error) {
	const q = `
        SELECT m.store_id, m.user_id, m.role, m.created_at, u.email, u.name
        FROM store_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.store_id = $1
        ORDER BY m.created_at`
	var members []models.StoreMember
	if err := r.db.SelectContext(ctx, &members, q, storeID); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember inserts a membership; duplicate joins are idempotent.
func (r *StoreRepository) AddMember(ctx context.Context, storeID, userID string, role models.MemberRole) error {
	const q = `INSERT INTO store_members (store_id, user_id, role) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, storeID, userID, role)
	return err
}

// RemoveMember deletes a membership. The owner cannot be removed.
func (r *StoreRepository) RemoveMember(ctx context.Context, storeID, userID string) error {
	const q = `DELETE FROM store_members WHERE store_id = $1 AND user_id = $2 AND role != 'owner'`
	res, err := r.db.ExecContext(ctx, q, storeID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
