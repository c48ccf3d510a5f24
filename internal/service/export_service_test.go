package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/models"
)

type flatFixture struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Hidden string      `json:"-"`
	Tags   []string    `json:"tags"`
	Child  *flatChild  `json:"child,omitempty"`
	Nested []flatChild `json:"nested"`
}

type flatChild struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

func TestFlattenScalarsAndPaths(t *testing.T) {
	row := Flatten(flatFixture{
		ID:     "p1",
		Name:   "Shirt",
		Tags:   []string{"summer", "sale"},
		Child:  &flatChild{Label: "inner", Count: 3, Ratio: 0.5},
		Nested: []flatChild{{Label: "a", Count: 1}},
	})

	assert.Equal(t, "p1", row.Values["id"])
	assert.Equal(t, "Shirt", row.Values["name"])
	assert.Equal(t, "summer", row.Values["tags[0]"])
	assert.Equal(t, "sale", row.Values["tags[1]"])
	assert.Equal(t, "inner", row.Values["child.label"])
	assert.Equal(t, "3", row.Values["child.count"])
	assert.Equal(t, "0.5", row.Values["child.ratio"])
	assert.Equal(t, "a", row.Values["nested[0].label"])
	assert.NotContains(t, row.Values, "Hidden")
}

func TestFlattenEmptyCollections(t *testing.T) {
	row := Flatten(flatFixture{ID: "p1", Name: "Shirt", Tags: []string{}, Nested: nil})

	assert.Equal(t, "[]", row.Values["tags"])
	assert.Equal(t, "[]", row.Values["nested"])
	// nil pointer child is simply absent
	assert.NotContains(t, row.Values, "child.label")
}

func TestFlattenKeyOrderIsDeclarationOrder(t *testing.T) {
	row := Flatten(flatFixture{ID: "p1", Name: "Shirt", Tags: []string{"x"}, Nested: nil})
	assert.Equal(t, []string{"id", "name", "tags[0]", "nested"}, row.Keys)
}

func TestWriteCSVUnionHeaderAndIdempotence(t *testing.T) {
	records := []interface{}{
		flatFixture{ID: "p1", Name: "A", Tags: []string{"x"}, Nested: nil},
		flatFixture{ID: "p2", Name: "B", Tags: nil, Nested: []flatChild{{Label: "n"}}},
	}

	var first, second bytes.Buffer
	require.NoError(t, WriteCSV(&first, records))
	require.NoError(t, WriteCSV(&second, records))

	// Repeated export of identical data is byte-identical.
	assert.Equal(t, first.Bytes(), second.Bytes())

	lines := bytes.Split(bytes.TrimSpace(first.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,tags[0],nested,tags,nested[0].label,nested[0].count,nested[0].ratio", string(lines[0]))

	// Row one has no nested children, so those cells are empty.
	assert.Contains(t, string(lines[1]), "p1,A,x,[]")
	// Row two has no tags entry at tags[0] but carries "[]" under tags.
	assert.Contains(t, string(lines[2]), "p2,B,,")
}

func TestFlattenProductAggregate(t *testing.T) {
	discounted := 800.0
	p := models.Product{
		ID:      "prod-1",
		StoreID: "store-1",
		Name:    "Shirt",
		Handle:  "shirt",
		Price: models.PriceData{
			Currency:         "NGN",
			Amount:           1000,
			DiscountedAmount: &discounted,
		},
		Images: []models.Image{{URL: "https://cdn/x.png", Position: 0}},
	}

	row := Flatten(p)
	assert.Equal(t, "prod-1", row.Values["id"])
	assert.Equal(t, "NGN", row.Values["priceData.currency"])
	assert.Equal(t, "1000", row.Values["priceData.price"])
	assert.Equal(t, "800", row.Values["priceData.discountedPrice"])
	assert.Equal(t, "https://cdn/x.png", row.Values["images[0].url"])
}
