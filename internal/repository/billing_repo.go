package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// BillingRepository handles data access for subscriptions and per-store
// payment configuration.
type BillingRepository struct {
	db *sqlx.DB
}

// NewBillingRepository creates a new BillingRepository.
func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// UpsertSubscription creates or updates the store's subscription. One row per
// store: reconciliation must never produce duplicates.
func (r *BillingRepository) UpsertSubscription(ctx context.Context, s *models.Subscription) error {
	const q = `
        INSERT INTO subscriptions (store_id, plan_code, customer_code, subscription_code, status, transaction_ref)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (store_id) DO UPDATE SET
            plan_code = EXCLUDED.plan_code,
            customer_code = EXCLUDED.customer_code,
            subscription_code = EXCLUDED.subscription_code,
            status = EXCLUDED.status,
            transaction_ref = EXCLUDED.transaction_ref,
            updated_at = NOW()
        RETURNING created_at, updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, s.StoreID, s.PlanCode, s.CustomerCode,
		s.SubscriptionCode, s.Status, s.TransactionRef).Scan(&s.CreatedAt, &s.UpdatedAt))
}

// GetSubscription returns the subscription of a store.
func (r *BillingRepository) GetSubscription(ctx context.Context, storeID string) (*models.Subscription, error) {
	const q = `SELECT * FROM subscriptions WHERE store_id = $1 LIMIT 1`
	var s models.Subscription
	if err := r.db.GetContext(ctx, &s, q, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetSubscriptionByCustomer resolves a subscription from the gateway's
// customer code. Used by webhook reconciliation.
func (r *BillingRepository) GetSubscriptionByCustomer(ctx context.Context, customerCode string) (*models.Subscription, error) {
	const q = `SELECT * FROM subscriptions WHERE customer_code = $1 LIMIT 1`
	var s models.Subscription
	if err := r.db.GetContext(ctx, &s, q, customerCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListPendingSubscriptions returns subscriptions awaiting confirmation.
func (r *BillingRepository) ListPendingSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	const q = `SELECT * FROM subscriptions WHERE status = 'pending' ORDER BY updated_at`
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, q); err != nil {
		return nil, err
	}
	return subs, nil
}

// UpdateSubscriptionStatus transitions a subscription's status.
func (r *BillingRepository) UpdateSubscriptionStatus(ctx context.Context, storeID string, status models.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE store_id = $1`
	res, err := r.db.ExecContext(ctx, q, storeID, string(status))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// UpsertPaymentConfig stores a store's gateway credentials. The secret key
// arrives already encrypted.
func (r *BillingRepository) UpsertPaymentConfig(ctx context.Context, pc *models.PaymentConfig) error {
	const q = `
        INSERT INTO payment_configs (store_id, public_key, secret_key_enc)
        VALUES ($1, $2, $3)
        ON CONFLICT (store_id) DO UPDATE SET
            public_key = EXCLUDED.public_key,
            secret_key_enc = EXCLUDED.secret_key_enc,
            updated_at = NOW()
        RETURNING updated_at`
	return translateError(r.db.QueryRowxContext(ctx, q, pc.StoreID, pc.PublicKey, pc.SecretKeyCipher).Scan(&pc.UpdatedAt))
}

// GetPaymentConfig returns a store's payment configuration.
func (r *BillingRepository) GetPaymentConfig(ctx context.Context, storeID string) (*models.PaymentConfig, error) {
	const q = `SELECT * FROM payment_configs WHERE store_id = $1 LIMIT 1`
	var pc models.PaymentConfig
	if err := r.db.GetContext(ctx, &pc, q, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &pc, nil
}
