package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/repository"
	"github.com/storelane/storelane-api/internal/utils"
)

// ProductStore is the persistence surface the assembler needs.
type ProductStore interface {
	HandleExists(ctx context.Context, storeID, handle, excludeID string) (bool, error)
	GetByID(ctx context.Context, storeID, id string) (*models.Product, error)
	List(ctx context.Context, storeID string, includeArchived bool, page, limit int) ([]models.Product, int, error)
	CreateAggregate(ctx context.Context, p *models.Product) error
	UpdateAggregate(ctx context.Context, p *models.Product, replaceOptions, replaceVariants bool) error
	Delete(ctx context.Context, storeID, id string) error
}

// ProductService assembles product aggregates from validated payloads and
// persists them through a single transactional write.
type ProductService struct {
	products    ProductStore
	synthesizer *VariantSynthesizer
}

// NewProductService constructs a ProductService.
func NewProductService(products ProductStore, synthesizer *VariantSynthesizer) *ProductService {
	return &ProductService{products: products, synthesizer: synthesizer}
}

// StockInput carries inventory settings for a product or variant.
type StockInput struct {
	TrackInventory  bool   `json:"trackInventory"`
	Quantity        int    `json:"quantity"`
	InventoryStatus string `json:"inventoryStatus"`
}

// DiscountInput carries an optional discount.
type DiscountInput struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// InfoSectionInput carries one additional-info section.
type InfoSectionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VariantInput carries one variant of the payload. The title must decompose
// into exactly one value per declared option axis.
type VariantInput struct {
	Title           string      `json:"title"`
	Price           float64     `json:"price"`
	DiscountedPrice *float64    `json:"discountedPrice,omitempty"`
	ItemCost        *float64    `json:"itemCost,omitempty"`
	Stock           *StockInput `json:"stock,omitempty"`
}

// ProductInput is the validated product payload. Name, price, description,
// and images are required; everything else is materialized only if present.
// On update, a nil Options or Variants slice leaves the existing rows
// untouched, while a present (possibly empty) slice replaces them wholesale.
type ProductInput struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Images          []string           `json:"images"`
	Price           float64            `json:"price"`
	DiscountedPrice *float64           `json:"discountedPrice,omitempty"`
	IsFeatured      bool               `json:"isFeatured"`
	IsArchived      bool               `json:"isArchived"`
	ManageVariants  bool               `json:"manageVariants"`
	Weight          *float64           `json:"weight,omitempty"`
	ItemCost        *float64           `json:"itemCost,omitempty"`
	Stock           *StockInput        `json:"stock,omitempty"`
	Discount        *DiscountInput     `json:"discount,omitempty"`
	CategoryIDs     []string           `json:"categoryIds,omitempty"`
	InfoSections    []InfoSectionInput `json:"additionalInfoSections,omitempty"`
	Options         []OptionInput      `json:"options,omitempty"`
	Variants        []VariantInput     `json:"variants,omitempty"`
}

// validate enforces the required fields before any write begins.
func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", utils.ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", utils.ErrValidation)
	}
	if len(in.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", utils.ErrValidation)
	}
	if in.Discount != nil {
		t := models.DiscountType(in.Discount.Type)
		if t != models.DiscountAmount && t != models.DiscountPercent {
			return fmt.Errorf("%w: discount type must be AMOUNT or PERCENT", utils.ErrValidation)
		}
	}
	return nil
}

// Create builds and persists a new product aggregate for the store.
func (s *ProductService) Create(ctx context.Context, store *models.Store, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	handle, err := s.generateHandle(ctx, store.ID, in.Name, "")
	if err != nil {
		return nil, err
	}

	p, err := s.assemble(store, in, uuid.New().String(), handle)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, func() error { return s.products.CreateAggregate(ctx, p) }); err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites an existing product aggregate. The handle is regenerated
// only when the name changed; options and variants are replaced only when
// the payload carries them.
func (s *ProductService) Update(ctx context.Context, store *models.Store, productID string, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.products.GetByID(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}

	handle := existing.Handle
	if existing.Name != in.Name {
		if handle, err = s.generateHandle(ctx, store.ID, in.Name, productID); err != nil {
			return nil, err
		}
	}

	p, err := s.assemble(store, in, productID, handle)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt

	replaceOptions := in.Options != nil
	replaceVariants := in.Variants != nil
	if replaceVariants && !replaceOptions {
		// Variant linkage decomposes titles against the declared axes, so a
		// variant replacement without axes reuses the stored ones.
		p.Options = existing.Options
		stored := make([]OptionInput, 0, len(existing.Options))
		for _, opt := range existing.Options {
			values := make([]string, 0, len(opt.Values))
			for _, v := range opt.Values {
				values = append(values, v.Value)
			}
			stored = append(stored, OptionInput{Name: opt.Name, Values: values})
		}
		if p.Variants, err = s.synthesizer.BuildVariants(in.Variants, stored, store.Currency); err != nil {
			return nil, err
		}
		replaceOptions = true
	}
	if replaceOptions && !replaceVariants && len(existing.Variants) > 0 {
		// Replacing the axes cascades through the value rows into the variant
		// linkage, so surviving variants are rebuilt by re-decomposing their
		// titles against the new axes. A title that no longer decomposes means
		// the payload is incompatible with the variants it keeps.
		carried := make([]VariantInput, 0, len(existing.Variants))
		for i := range existing.Variants {
			v := &existing.Variants[i]
			vi := VariantInput{
				Title:           v.Title,
				Price:           v.Price.Amount,
				DiscountedPrice: v.Price.DiscountedAmount,
			}
			if v.CostProfit != nil {
				cost := v.CostProfit.ItemCost
				vi.ItemCost = &cost
			}
			if v.Stock != nil {
				vi.Stock = &StockInput{
					TrackInventory:  v.Stock.TrackInventory,
					Quantity:        v.Stock.Quantity,
					InventoryStatus: string(v.Stock.InventoryStatus),
				}
			}
			carried = append(carried, vi)
		}
		if p.Variants, err = s.synthesizer.BuildVariants(carried, in.Options, store.Currency); err != nil {
			return nil, err
		}
		replaceVariants = true
	}

	if err := s.persist(ctx, func() error {
		return s.products.UpdateAggregate(ctx, p, replaceOptions, replaceVariants)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// persist runs the aggregate write, retrying once on a serialization
// conflict so concurrent writers degrade to sequential instead of failing.
func (s *ProductService) persist(ctx context.Context, write func() error) error {
	err := write()
	if err != nil && repository.IsSerializationFailure(err) {
		err = write()
	}
	return err
}

// assemble maps the payload onto a product aggregate, deriving cost/profit
// figures and synthesizing options and variants.
func (s *ProductService) assemble(store *models.Store, in *ProductInput, id, handle string) (*models.Product, error) {
	p := &models.Product{
		ID:             id,
		StoreID:        store.ID,
		Name:           in.Name,
		Handle:         handle,
		Description:    in.Description,
		IsFeatured:     in.IsFeatured,
		IsArchived:     in.IsArchived,
		ManageVariants: in.ManageVariants,
		Weight:         in.Weight,
		Price: models.PriceData{
			Currency:         store.Currency,
			Amount:           in.Price,
			DiscountedAmount: in.DiscountedPrice,
		},
		CategoryIDs: in.CategoryIDs,
	}

	if in.ItemCost != nil {
		p.CostProfit = computeCostProfit(in.Price, *in.ItemCost, store.Currency)
	}
	if in.Stock != nil && !in.ManageVariants {
		p.Stock = buildStock(in.Stock)
	}
	if in.Discount != nil {
		p.Discount = &models.Discount{Value: in.Discount.Value, Type: models.DiscountType(in.Discount.Type)}
	}
	for i, url := range in.Images {
		p.Images = append(p.Images, models.Image{URL: url, Position: i})
	}
	for i, sec := range in.InfoSections {
		p.InfoSections = append(p.InfoSections, models.AdditionalInfoSection{
			Title:       sec.Title,
			Description: sec.Description,
			Position:    i,
		})
	}

	if len(in.Options) > 0 {
		options, err := s.synthesizer.BuildOptions(in.Options)
		if err != nil {
			return nil, err
		}
		p.Options = options
	}
	if len(in.Variants) > 0 {
		variants, err := s.synthesizer.BuildVariants(in.Variants, in.Options, store.Currency)
		if err != nil {
			return nil, err
		}
		p.Variants = variants
	}
	return p, nil
}

// generateHandle derives a URL-safe handle from the name and probes for
// collisions among the store's other products, appending an incrementing
// numeric suffix until the handle is free.
func (s *ProductService) generateHandle(ctx context.Context, storeID, name, excludeID string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		return "", fmt.Errorf("%w: name yields an empty handle", utils.ErrValidation)
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.products.HandleExists(ctx, storeID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// Get returns a product aggregate.
func (s *ProductService) Get(ctx context.Context, storeID, id string) (*models.Product, error) {
	return s.products.GetByID(ctx, storeID, id)
}

// List returns product aggregates with pagination.
func (s *ProductService) List(ctx context.Context, storeID string, includeArchived bool, page, limit int) ([]models.Product, int, error) {
	return s.products.List(ctx, storeID, includeArchived, page, limit)
}

// Delete removes a product and its owned children.
func (s *ProductService) Delete(ctx context.Context, storeID, id string) error {
	return s.products.Delete(ctx, storeID, id)
}

// computeCostProfit derives profit figures from price and item cost.
// Recomputed on every write; never stored from the payload.
func computeCostProfit(price, itemCost float64, currency string) *models.CostAndProfitData {
	profit := price - itemCost
	margin := 0.0
	if price > 0 {
		margin = profit / price * 100
	}
	return &models.CostAndProfitData{
		ItemCost:        itemCost,
		Profit:          profit,
		ProfitMargin:    margin,
		FormattedCost:   fmt.Sprintf("%s %.2f", currency, itemCost),
		FormattedProfit: fmt.Sprintf("%s %.2f", currency, profit),
	}
}

// buildStock normalizes the stock payload: tracked inventory carries a
// quantity, untracked inventory carries a coarse status.
func buildStock(in *StockInput) *models.Stock {
	stock := &models.Stock{TrackInventory: in.TrackInventory}
	if in.TrackInventory {
		stock.Quantity = in.Quantity
		stock.InventoryStatus = models.InventoryInStock
		if in.Quantity <= 0 {
			stock.InventoryStatus = models.InventoryOutOfStock
		}
	} else {
		stock.InventoryStatus = models.InventoryStatus(in.InventoryStatus)
		if stock.InventoryStatus == "" {
			stock.InventoryStatus = models.InventoryInStock
		}
	}
	return stock
}
