package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// VariantSynthesizer expands declared option axes into variant records and
// links each variant to the option values its title encodes. Title generation
// and decomposition share one separator and ordering convention: axis order
// and value order are significant, so write and read paths always agree.
type VariantSynthesizer struct{}

// NewVariantSynthesizer constructs a VariantSynthesizer.
func NewVariantSynthesizer() *VariantSynthesizer {
	return &VariantSynthesizer{}
}

// OptionInput declares one option axis with its ordered values.
type OptionInput struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// titleSeparator joins option values into variant titles.
const titleSeparator = "-"

// GenerateTitles produces the full cartesian product of the option axes,
// depth-first in declaration order. For axes Color=[Red,Blue], Size=[S,M]
// the result is exactly [Red-S, Red-M, Blue-S, Blue-M].
func (s *VariantSynthesizer) GenerateTitles(options []OptionInput) []string {
	if len(options) == 0 {
		return nil
	}
	var titles []string
	var walk func(axis int, prefix string)
	walk = func(axis int, prefix string) {
		if axis == len(options) {
			titles = append(titles, strings.TrimPrefix(prefix, titleSeparator))
			return
		}
		for _, value := range options[axis].Values {
			walk(axis+1, prefix+titleSeparator+value)
		}
	}
	walk(0, "")
	return titles
}

// DecomposeTitle parses a variant title back into one (axis, value) selection
// per declared option axis. Matching backtracks across axes, so values that
// contain the separator or share a prefix with another value still decompose:
// any title GenerateTitles produces parses back. A title that does not consume
// exactly one value per axis is rejected.
func (s *VariantSynthesizer) DecomposeTitle(title string, options []OptionInput) ([]models.OptionSelection, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no option axes declared", utils.ErrInvalidVariant)
	}

	selections := make([]models.OptionSelection, len(options))
	var match func(axis int, rest string) bool
	match = func(axis int, rest string) bool {
		if axis == len(options) {
			return rest == ""
		}
		if axis > 0 {
			if !strings.HasPrefix(rest, titleSeparator) {
				return false
			}
			rest = strings.TrimPrefix(rest, titleSeparator)
		}
		for _, value := range options[axis].Values {
			if strings.HasPrefix(rest, value) && match(axis+1, rest[len(value):]) {
				selections[axis] = models.OptionSelection{OptionName: options[axis].Name, Value: value}
				return true
			}
		}
		return false
	}
	if !match(0, title) {
		return nil, fmt.Errorf("%w: title %q does not select exactly one value per option axis", utils.ErrInvalidVariant, title)
	}
	return selections, nil
}

// BuildOptions materializes option and value rows from the declared axes,
// assigning fresh ids. Duplicate axis names or duplicate values within an
// axis are rejected rather than silently collapsed.
func (s *VariantSynthesizer) BuildOptions(options []OptionInput) ([]models.Option, error) {
	seen := make(map[string]bool, len(options))
	built := make([]models.Option, 0, len(options))
	for i, in := range options {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: option name is required", utils.ErrValidation)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate option %q", utils.ErrValidation, name)
		}
		seen[name] = true
		if len(in.Values) == 0 {
			return nil, fmt.Errorf("%w: option %q has no values", utils.ErrValidation, name)
		}

		opt := models.Option{ID: uuid.New().String(), Name: name, Position: i}
		seenValues := make(map[string]bool, len(in.Values))
		for j, v := range in.Values {
			if v == "" {
				return nil, fmt.Errorf("%w: option %q has an empty value", utils.ErrValidation, name)
			}
			if seenValues[v] {
				return nil, fmt.Errorf("%w: option %q has duplicate value %q", utils.ErrValidation, name, v)
			}
			seenValues[v] = true
			opt.Values = append(opt.Values, models.OptionValue{
				ID:       uuid.New().String(),
				OptionID: opt.ID,
				Value:    v,
				Position: j,
			})
		}
		built = append(built, opt)
	}
	return built, nil
}

// BuildVariants validates and materializes variant rows, decomposing each
// title against the declared axes. Every variant must select exactly one
// value per axis; duplicates of the same combination are rejected.
func (s *VariantSynthesizer) BuildVariants(variants []VariantInput, options []OptionInput, currency string) ([]models.Variant, error) {
	seenTitles := make(map[string]bool, len(variants))
	built := make([]models.Variant, 0, len(variants))
	for _, in := range variants {
		if in.Title == "" {
			return nil, fmt.Errorf("%w: variant title is required", utils.ErrValidation)
		}
		if in.Price <= 0 {
			return nil, fmt.Errorf("%w: variant %q price must be positive", utils.ErrValidation, in.Title)
		}
		if seenTitles[in.Title] {
			return nil, fmt.Errorf("%w: duplicate variant %q", utils.ErrValidation, in.Title)
		}
		seenTitles[in.Title] = true

		selections, err := s.DecomposeTitle(in.Title, options)
		if err != nil {
			return nil, err
		}

		v := models.Variant{
			ID:    uuid.New().String(),
			Title: in.Title,
			Price: models.PriceData{
				Currency:         currency,
				Amount:           in.Price,
				DiscountedAmount: in.DiscountedPrice,
			},
			Selections: selections,
		}
		if in.ItemCost != nil {
			v.CostProfit = computeCostProfit(in.Price, *in.ItemCost, currency)
		}
		if in.Stock != nil {
			v.Stock = buildStock(in.Stock)
		}
		built = append(built, v)
	}
	return built, nil
}
