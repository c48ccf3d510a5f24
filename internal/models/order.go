package models

import "time"

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Customer is a storefront buyer, scoped to a store.
type Customer struct {
	ID         string    `db:"id" json:"id"`
	StoreID    string    `db:"store_id" json:"storeId"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	Address    string    `db:"address" json:"address"`
	OrderCount int       `db:"order_count" json:"orderCount"`
	TotalSpent float64   `db:"total_spent" json:"totalSpent"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// Order is a storefront purchase. Line items snapshot product name and price
// at write time; they never reference variant rows, which are replaced
// wholesale on product updates.
type Order struct {
	ID         string      `db:"id" json:"id"`
	StoreID    string      `db:"store_id" json:"storeId"`
	CustomerID *string     `db:"customer_id" json:"customerId,omitempty"`
	Number     string      `db:"number" json:"number"`
	Status     OrderStatus `db:"status" json:"status"`
	Currency   string      `db:"currency" json:"currency"`
	Total      float64     `db:"total" json:"total"`
	IsPaid     bool        `db:"is_paid" json:"isPaid"`
	PaymentRef string      `db:"payment_ref" json:"paymentRef,omitempty"`
	Address    string      `db:"address" json:"address"`
	Phone      string      `db:"phone" json:"phone"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at" json:"-"`

	Items []OrderItem `json:"items"`
}

// OrderItem is a price/name snapshot of a purchased product or variant.
type OrderItem struct {
	ID           int     `db:"id" json:"id"`
	OrderID      string  `db:"order_id" json:"-"`
	ProductName  string  `db:"product_name" json:"productName"`
	VariantTitle *string `db:"variant_title" json:"variantTitle,omitempty"`
	UnitPrice    float64 `db:"unit_price" json:"unitPrice"`
	Quantity     int     `db:"quantity" json:"quantity"`
}
