package models

import "time"

// DomainStatus enumerates custom-domain verification states.
// Transitions: pending -> verified | failed; failed -> pending on re-submit.
type DomainStatus string

const (
	DomainPending  DomainStatus = "pending"
	DomainVerified DomainStatus = "verified"
	DomainFailed   DomainStatus = "failed"
)

// StoreDomain is a custom domain registered for a store.
type StoreDomain struct {
	ID        string       `db:"id" json:"id"`
	StoreID   string       `db:"store_id" json:"storeId"`
	Domain    string       `db:"domain" json:"domain"`
	Status    DomainStatus `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `db:"updated_at" json:"updatedAt"`
}

// CNAMEInstructions tells the store owner which DNS record to create.
type CNAMEInstructions struct {
	RecordName string `json:"recordName"`
	RecordType string `json:"recordType"`
	Target     string `json:"target"`
}
