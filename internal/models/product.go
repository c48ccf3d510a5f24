package models

import "time"

// InventoryStatus enumerates stock states when quantity is not tracked.
type InventoryStatus string

const (
	InventoryInStock      InventoryStatus = "IN_STOCK"
	InventoryOutOfStock   InventoryStatus = "OUT_OF_STOCK"
	InventoryPartiallyOut InventoryStatus = "PARTIALLY_OUT_OF_STOCK"
)

// DiscountType enumerates the supported discount kinds.
type DiscountType string

const (
	DiscountAmount  DiscountType = "AMOUNT"
	DiscountPercent DiscountType = "PERCENT"
)

// PriceData holds pricing in major currency units.
type PriceData struct {
	Currency         string   `json:"currency"`
	Amount           float64  `json:"price"`
	DiscountedAmount *float64 `json:"discountedPrice,omitempty"`
}

// Stock tracks inventory either by quantity or by coarse status.
type Stock struct {
	TrackInventory  bool            `json:"trackInventory"`
	Quantity        int             `json:"quantity"`
	InventoryStatus InventoryStatus `json:"inventoryStatus,omitempty"`
}

// CostAndProfitData is derived on every write from price and item cost.
type CostAndProfitData struct {
	ItemCost        float64 `json:"itemCost"`
	Profit          float64 `json:"profit"`
	ProfitMargin    float64 `json:"profitMargin"`
	FormattedCost   string  `json:"formattedItemCost"`
	FormattedProfit string  `json:"formattedProfit"`
}

// Discount is an optional product-level price reduction.
type Discount struct {
	Value float64      `json:"value"`
	Type  DiscountType `json:"type"`
}

// Image is an ordered product image.
type Image struct {
	URL      string `db:"url" json:"url"`
	Position int    `db:"position" json:"position"`
}

// AdditionalInfoSection is a titled free-text block shown on the product page.
// The list is fully replaced on every product update.
type AdditionalInfoSection struct {
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Position    int    `db:"position" json:"position"`
}

// Product is the aggregate root for a catalog item. Child collections are
// persisted and replaced as a unit with the product row.
type Product struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"storeId"`
	Name           string    `db:"name" json:"name"`
	Handle         string    `db:"handle" json:"handle"`
	Description    string    `db:"description" json:"description"`
	IsFeatured     bool      `db:"is_featured" json:"isFeatured"`
	IsArchived     bool      `db:"is_archived" json:"isArchived"`
	ManageVariants bool      `db:"manage_variants" json:"manageVariants"`
	Weight         *float64  `db:"weight" json:"weight,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Price        PriceData               `json:"priceData"`
	CostProfit   *CostAndProfitData      `json:"costAndProfitData,omitempty"`
	Stock        *Stock                  `json:"stock,omitempty"`
	Discount     *Discount               `json:"discount,omitempty"`
	Images       []Image                 `json:"images"`
	InfoSections []AdditionalInfoSection `json:"additionalInfoSections,omitempty"`
	CategoryIDs  []string                `json:"categoryIds,omitempty"`
	Options      []Option                `json:"options,omitempty"`
	Variants     []Variant               `json:"variants,omitempty"`
}
