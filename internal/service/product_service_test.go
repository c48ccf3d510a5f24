package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// fakeProductStore keeps aggregates in memory and records handles so handle
// probing can be exercised without a database.
type fakeProductStore struct {
	products map[string]*models.Product
	creates  int
	updates  int
	failNext error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]*models.Product)}
}

func (f *fakeProductStore) HandleExists(_ context.Context, storeID, handle, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.StoreID == storeID && p.Handle == handle && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductStore) GetByID(_ context.Context, storeID, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.StoreID != storeID {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductStore) List(_ context.Context, storeID string, includeArchived bool, _, _ int) ([]models.Product, int, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.StoreID == storeID && (includeArchived || !p.IsArchived) {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeProductStore) CreateAggregate(_ context.Context, p *models.Product) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.creates++
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) UpdateAggregate(_ context.Context, p *models.Product, _, _ bool) error {
	f.updates++
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, storeID, id string) error {
	delete(f.products, id)
	return nil
}

func testStore() *models.Store {
	return &models.Store{ID: "store-1", Name: "Test Store", Currency: "NGN"}
}

func validInput() *ProductInput {
	return &ProductInput{
		Name:        "Red Shirt",
		Description: "A shirt",
		Images:      []string{"https://cdn/a.png"},
		Price:       1000,
	}
}

func TestProductCreateRequiredFields(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), NewVariantSynthesizer())

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }},
		{"zero price", func(in *ProductInput) { in.Price = 0 }},
		{"negative price", func(in *ProductInput) { in.Price = -5 }},
		{"missing description", func(in *ProductInput) { in.Description = "  " }},
		{"no images", func(in *ProductInput) { in.Images = nil }},
		{"bad discount type", func(in *ProductInput) { in.Discount = &DiscountInput{Value: 10, Type: "HALF"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			_, err := svc.Create(context.Background(), testStore(), in)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
}

func TestProductCreateGeneratesHandle(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	p1, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "red-shirt", p1.Handle)

	// Same name gets a numeric suffix.
	p2, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "red-shirt-1", p2.Handle)

	p3, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "red-shirt-2", p3.Handle)
}

func TestProductCreateAssemblesAggregate(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	itemCost := 400.0
	in := validInput()
	in.ItemCost = &itemCost
	in.Stock = &StockInput{TrackInventory: true, Quantity: 0}
	in.InfoSections = []InfoSectionInput{{Title: "Care", Description: "Wash cold"}}
	in.Options = []OptionInput{{Name: "Size", Values: []string{"S", "M"}}}
	in.Variants = []VariantInput{
		{Title: "S", Price: 1000},
		{Title: "M", Price: 1100},
	}

	p, err := svc.Create(context.Background(), testStore(), in)
	require.NoError(t, err)

	assert.Equal(t, "NGN", p.Price.Currency)
	require.NotNil(t, p.CostProfit)
	assert.Equal(t, 600.0, p.CostProfit.Profit)
	assert.Equal(t, "NGN 400.00", p.CostProfit.FormattedCost)
	require.NotNil(t, p.Stock)
	assert.Equal(t, models.InventoryOutOfStock, p.Stock.InventoryStatus)
	require.Len(t, p.InfoSections, 1)
	assert.Equal(t, 0, p.InfoSections[0].Position)
	require.Len(t, p.Options, 1)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, 1, store.creates)
}

func TestProductCreateSkipsStockWhenVariantsManaged(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), NewVariantSynthesizer())

	in := validInput()
	in.ManageVariants = true
	in.Stock = &StockInput{TrackInventory: true, Quantity: 10}

	p, err := svc.Create(context.Background(), testStore(), in)
	require.NoError(t, err)
	assert.Nil(t, p.Stock)
}

func TestProductUpdateKeepsHandleWhenNameUnchanged(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	created, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Description = "Updated description"
	updated, err := svc.Update(context.Background(), testStore(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.Handle, updated.Handle)
	assert.Equal(t, "Updated description", updated.Description)
}

func TestProductUpdateRegeneratesHandleOnRename(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	created, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Blue Shirt"
	updated, err := svc.Update(context.Background(), testStore(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "blue-shirt", updated.Handle)
}

func TestProductUpdateOptionsAloneRelinksVariants(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	itemCost := 400.0
	in := validInput()
	in.Options = []OptionInput{{Name: "Size", Values: []string{"S", "M"}}}
	in.Variants = []VariantInput{
		{Title: "S", Price: 1000, ItemCost: &itemCost},
		{Title: "M", Price: 1100, Stock: &StockInput{TrackInventory: true, Quantity: 5}},
	}
	created, err := svc.Create(context.Background(), testStore(), in)
	require.NoError(t, err)

	// New axes, no variants in the payload: the stored variants must be
	// rebuilt against the new axes instead of losing their value linkage.
	up := validInput()
	up.Options = []OptionInput{{Name: "Size", Values: []string{"S", "M", "L"}}}
	updated, err := svc.Update(context.Background(), testStore(), created.ID, up)
	require.NoError(t, err)

	require.Len(t, updated.Variants, 2)
	assert.Equal(t, "S", updated.Variants[0].Title)
	require.Len(t, updated.Variants[0].Selections, 1)
	assert.Equal(t, "Size", updated.Variants[0].Selections[0].OptionName)
	assert.Equal(t, "S", updated.Variants[0].Selections[0].Value)
	require.NotNil(t, updated.Variants[0].CostProfit)
	assert.Equal(t, 600.0, updated.Variants[0].CostProfit.Profit)
	require.NotNil(t, updated.Variants[1].Stock)
	assert.Equal(t, 5, updated.Variants[1].Stock.Quantity)
}

func TestProductUpdateOptionsIncompatibleWithVariants(t *testing.T) {
	store := newFakeProductStore()
	svc := NewProductService(store, NewVariantSynthesizer())

	in := validInput()
	in.Options = []OptionInput{{Name: "Size", Values: []string{"S", "M"}}}
	in.Variants = []VariantInput{{Title: "S", Price: 1000}}
	created, err := svc.Create(context.Background(), testStore(), in)
	require.NoError(t, err)

	up := validInput()
	up.Options = []OptionInput{{Name: "Size", Values: []string{"XL"}}}
	_, err = svc.Update(context.Background(), testStore(), created.ID, up)
	assert.ErrorIs(t, err, utils.ErrInvalidVariant)
}

func TestProductCreateRetriesSerializationConflict(t *testing.T) {
	store := newFakeProductStore()
	store.failNext = &pq.Error{Code: "40001"}
	svc := NewProductService(store, NewVariantSynthesizer())

	p, err := svc.Create(context.Background(), testStore(), validInput())
	require.NoError(t, err)
	assert.NotNil(t, store.products[p.ID])
	assert.Equal(t, 1, store.creates)
}

func TestProductUpdateUnknownProduct(t *testing.T) {
	svc := NewProductService(newFakeProductStore(), NewVariantSynthesizer())

	_, err := svc.Update(context.Background(), testStore(), "missing", validInput())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
