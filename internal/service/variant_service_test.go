package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

func colorSizeOptions() []OptionInput {
	return []OptionInput{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M"}},
	}
}

func TestGenerateTitlesCartesianOrder(t *testing.T) {
	s := NewVariantSynthesizer()

	titles := s.GenerateTitles(colorSizeOptions())
	assert.Equal(t, []string{"Red-S", "Red-M", "Blue-S", "Blue-M"}, titles)
}

func TestGenerateTitlesSingleAxis(t *testing.T) {
	s := NewVariantSynthesizer()

	titles := s.GenerateTitles([]OptionInput{{Name: "Size", Values: []string{"S", "M", "L"}}})
	assert.Equal(t, []string{"S", "M", "L"}, titles)
}

func TestGenerateTitlesNoOptions(t *testing.T) {
	s := NewVariantSynthesizer()
	assert.Nil(t, s.GenerateTitles(nil))
}

func TestDecomposeTitleRoundTrip(t *testing.T) {
	s := NewVariantSynthesizer()
	options := colorSizeOptions()

	for _, title := range s.GenerateTitles(options) {
		selections, err := s.DecomposeTitle(title, options)
		require.NoError(t, err, "title %q", title)
		require.Len(t, selections, 2)
		assert.Equal(t, "Color", selections[0].OptionName)
		assert.Equal(t, "Size", selections[1].OptionName)
	}
}

func TestDecomposeTitleWithSeparatorInValue(t *testing.T) {
	s := NewVariantSynthesizer()
	options := []OptionInput{
		{Name: "Style", Values: []string{"T-Shirt", "Hoodie"}},
		{Name: "Size", Values: []string{"S"}},
	}

	selections, err := s.DecomposeTitle("T-Shirt-S", options)
	require.NoError(t, err)
	assert.Equal(t, []models.OptionSelection{
		{OptionName: "Style", Value: "T-Shirt"},
		{OptionName: "Size", Value: "S"},
	}, selections)
}

func TestDecomposeTitleBacktracksOverlappingValues(t *testing.T) {
	s := NewVariantSynthesizer()

	// One value is a prefix of another on the same axis.
	prefixed := []OptionInput{{Name: "Color", Values: []string{"Red", "RedDark"}}}
	selections, err := s.DecomposeTitle("RedDark", prefixed)
	require.NoError(t, err)
	assert.Equal(t, []models.OptionSelection{{OptionName: "Color", Value: "RedDark"}}, selections)

	// A value containing the separator overlaps a shorter value plus the
	// next axis's boundary.
	overlapping := []OptionInput{
		{Name: "Color", Values: []string{"Red", "Red-X"}},
		{Name: "Size", Values: []string{"L"}},
	}
	selections, err = s.DecomposeTitle("Red-X-L", overlapping)
	require.NoError(t, err)
	assert.Equal(t, []models.OptionSelection{
		{OptionName: "Color", Value: "Red-X"},
		{OptionName: "Size", Value: "L"},
	}, selections)

	// Every generated title over these axes must decompose back.
	for _, title := range s.GenerateTitles(overlapping) {
		_, err := s.DecomposeTitle(title, overlapping)
		assert.NoError(t, err, "title %q", title)
	}
}

func TestDecomposeTitleRejectsPartialSelection(t *testing.T) {
	s := NewVariantSynthesizer()
	options := colorSizeOptions()

	tests := []struct {
		name  string
		title string
	}{
		{"missing second axis", "Red"},
		{"unknown value", "Green-S"},
		{"trailing content", "Red-S-extra"},
		{"empty title", ""},
		{"missing separator", "RedS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.DecomposeTitle(tt.title, options)
			assert.ErrorIs(t, err, utils.ErrInvalidVariant)
		})
	}
}

func TestBuildOptionsAssignsIDsAndPositions(t *testing.T) {
	s := NewVariantSynthesizer()

	built, err := s.BuildOptions(colorSizeOptions())
	require.NoError(t, err)
	require.Len(t, built, 2)

	assert.Equal(t, "Color", built[0].Name)
	assert.Equal(t, 0, built[0].Position)
	assert.NotEmpty(t, built[0].ID)
	require.Len(t, built[0].Values, 2)
	assert.Equal(t, built[0].ID, built[0].Values[0].OptionID)
	assert.Equal(t, 1, built[0].Values[1].Position)
}

func TestBuildOptionsRejectsDuplicates(t *testing.T) {
	s := NewVariantSynthesizer()

	_, err := s.BuildOptions([]OptionInput{
		{Name: "Color", Values: []string{"Red"}},
		{Name: "Color", Values: []string{"Blue"}},
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = s.BuildOptions([]OptionInput{
		{Name: "Color", Values: []string{"Red", "Red"}},
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = s.BuildOptions([]OptionInput{
		{Name: "Color", Values: nil},
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestBuildVariants(t *testing.T) {
	s := NewVariantSynthesizer()
	options := colorSizeOptions()
	itemCost := 400.0

	variants, err := s.BuildVariants([]VariantInput{
		{Title: "Red-S", Price: 1000, ItemCost: &itemCost},
		{Title: "Blue-M", Price: 1200, Stock: &StockInput{TrackInventory: true, Quantity: 5}},
	}, options, "NGN")
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "Red-S", variants[0].Title)
	assert.Equal(t, "NGN", variants[0].Price.Currency)
	require.NotNil(t, variants[0].CostProfit)
	assert.Equal(t, 600.0, variants[0].CostProfit.Profit)
	assert.Equal(t, 60.0, variants[0].CostProfit.ProfitMargin)
	require.Len(t, variants[0].Selections, 2)

	require.NotNil(t, variants[1].Stock)
	assert.Equal(t, 5, variants[1].Stock.Quantity)
	assert.Equal(t, models.InventoryInStock, variants[1].Stock.InventoryStatus)
}

func TestBuildVariantsValidation(t *testing.T) {
	s := NewVariantSynthesizer()
	options := colorSizeOptions()

	_, err := s.BuildVariants([]VariantInput{{Title: "", Price: 100}}, options, "NGN")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = s.BuildVariants([]VariantInput{{Title: "Red-S", Price: 0}}, options, "NGN")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = s.BuildVariants([]VariantInput{
		{Title: "Red-S", Price: 100},
		{Title: "Red-S", Price: 200},
	}, options, "NGN")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = s.BuildVariants([]VariantInput{{Title: "Green-S", Price: 100}}, options, "NGN")
	assert.ErrorIs(t, err, utils.ErrInvalidVariant)
}
