package models

import "time"

// SubscriptionStatus enumerates store subscription states.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Plan is a billing plan store owners can subscribe to.
type Plan struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	Currency     string  `json:"currency"`
}

// Subscription is the single billing subscription of a store. There is at
// most one row per store; webhook reconciliation upserts it.
type Subscription struct {
	StoreID          string             `db:"store_id" json:"storeId"`
	PlanCode         string             `db:"plan_code" json:"planCode"`
	CustomerCode     string             `db:"customer_code" json:"customerCode"`
	SubscriptionCode string             `db:"subscription_code" json:"subscriptionCode,omitempty"`
	Status           SubscriptionStatus `db:"status" json:"status"`
	TransactionRef   string             `db:"transaction_ref" json:"transactionRef,omitempty"`
	CreatedAt        time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updatedAt"`
}

// PaymentConfig holds a store's own gateway credentials for storefront
// checkout. The secret key is encrypted at rest and decrypted only at the
// moment of use.
type PaymentConfig struct {
	StoreID         string    `db:"store_id" json:"storeId"`
	PublicKey       string    `db:"public_key" json:"publicKey"`
	SecretKeyCipher string    `db:"secret_key_enc" json:"-"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
