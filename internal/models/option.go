package models

// Option is a named axis of product variation (e.g., "Color"). Option names
// are unique within a product; axis order determines variant title order.
type Option struct {
	ID        string        `db:"id" json:"id"`
	ProductID string        `db:"product_id" json:"productId"`
	Name      string        `db:"name" json:"name"`
	Position  int           `db:"position" json:"position"`
	Values    []OptionValue `json:"values"`
}

// OptionValue is one possible value of an option axis (e.g., "Red").
type OptionValue struct {
	ID       string `db:"id" json:"id"`
	OptionID string `db:"option_id" json:"optionId"`
	Value    string `db:"value" json:"value"`
	Position int    `db:"position" json:"position"`
}

// Variant is a specific combination of one value per option axis, with its
// own pricing and optional cost/stock. Variant rows are replaced wholesale on
// product update, so nothing outside the aggregate may hold a variant id.
type Variant struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	Title     string `db:"title" json:"title"`

	Price      PriceData          `json:"priceData"`
	CostProfit *CostAndProfitData `json:"costAndProfitData,omitempty"`
	Stock      *Stock             `json:"stock,omitempty"`

	// SelectedValueIDs are the option value ids this variant encodes,
	// exactly one per axis in axis order.
	SelectedValueIDs []string `json:"selectedOptionValueIds,omitempty"`

	// Selections is the decomposed (axis, value) set derived from Title by
	// the synthesizer. It drives linkage at persistence time and is not
	// serialized.
	Selections []OptionSelection `json:"-"`
}

// OptionSelection names one (axis, value) pair a variant selects.
type OptionSelection struct {
	OptionName string
	Value      string
}
