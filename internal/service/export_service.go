package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/storelane/storelane-api/internal/models"
)

// ExportService flattens aggregate records into tabular rows and writes them
// as CSV. Flattening walks struct fields in declaration order, so repeated
// exports of identical data are byte-identical.
type ExportService struct {
	products   ProductStore
	categories CategoryLister
	billboards BillboardLister
}

// CategoryLister is the listing surface the exporter needs for categories.
type CategoryLister interface {
	List(ctx context.Context, storeID string) ([]models.Category, error)
}

// BillboardLister is the listing surface the exporter needs for billboards.
type BillboardLister interface {
	List(ctx context.Context, storeID string) ([]models.Billboard, error)
}

// NewExportService constructs an ExportService.
func NewExportService(products ProductStore, categories CategoryLister, billboards BillboardLister) *ExportService {
	return &ExportService{products: products, categories: categories, billboards: billboards}
}

// ExportProducts writes all products of the store (archived included) as CSV.
func (s *ExportService) ExportProducts(ctx context.Context, storeID string, w io.Writer) error {
	products, _, err := s.products.List(ctx, storeID, true, 1, exportPageLimit)
	if err != nil {
		return err
	}
	records := make([]interface{}, len(products))
	for i := range products {
		records[i] = products[i]
	}
	return WriteCSV(w, records)
}

// ExportCategories writes all categories of the store as CSV.
func (s *ExportService) ExportCategories(ctx context.Context, storeID string, w io.Writer) error {
	categories, err := s.categories.List(ctx, storeID)
	if err != nil {
		return err
	}
	records := make([]interface{}, len(categories))
	for i := range categories {
		records[i] = categories[i]
	}
	return WriteCSV(w, records)
}

// ExportBillboards writes all billboards of the store as CSV.
func (s *ExportService) ExportBillboards(ctx context.Context, storeID string, w io.Writer) error {
	billboards, err := s.billboards.List(ctx, storeID)
	if err != nil {
		return err
	}
	records := make([]interface{}, len(billboards))
	for i := range billboards {
		records[i] = billboards[i]
	}
	return WriteCSV(w, records)
}

// exportPageLimit caps a single export. Large enough for any realistic
// catalog; exports are whole-table by design, not paginated.
const exportPageLimit = 100000

// FlatRow maps leaf paths like "price.amount" or "images[0].url" to rendered
// scalar values, together with the order the paths were first produced in.
type FlatRow struct {
	Values map[string]string
	Keys   []string
}

// Flatten walks one record into a FlatRow. Scalars land at their path, arrays
// recurse per element with a bracketed index (empty arrays yield "[]"),
// objects recurse per field with a dotted name (empty objects yield "{}").
func Flatten(record interface{}) FlatRow {
	row := FlatRow{Values: make(map[string]string)}
	flattenValue(reflect.ValueOf(record), "", &row)
	return row
}

func (r *FlatRow) set(path, value string) {
	if _, exists := r.Values[path]; !exists {
		r.Keys = append(r.Keys, path)
	}
	r.Values[path] = value
}

func flattenValue(v reflect.Value, path string, row *FlatRow) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return
		}
		flattenValue(v.Elem(), path, row)
	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			row.set(path, t.UTC().Format(time.RFC3339))
			return
		}
		flattenStruct(v, path, row)
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			row.set(path, "[]")
			return
		}
		for i := 0; i < v.Len(); i++ {
			flattenValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i), row)
		}
	case reflect.Map:
		if v.Len() == 0 {
			row.set(path, "{}")
			return
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenValue(v.MapIndex(reflect.ValueOf(k)), joinPath(path, k), row)
		}
	default:
		row.set(path, renderScalar(v))
	}
}

func flattenStruct(v reflect.Value, path string, row *FlatRow) {
	t := v.Type()
	wrote := false
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := jsonName(field)
		if name == "-" {
			continue
		}
		wrote = true
		flattenValue(v.Field(i), joinPath(path, name), row)
	}
	if !wrote && path != "" {
		row.set(path, "{}")
	}
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func renderScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// WriteCSV flattens every record and emits one CSV row per record. The header
// is the union of all paths in first-seen order; rows missing a path get an
// empty cell.
func WriteCSV(w io.Writer, records []interface{}) error {
	rows := make([]FlatRow, len(records))
	var header []string
	seen := make(map[string]bool)
	for i, rec := range records {
		rows[i] = Flatten(rec)
		for _, k := range rows[i].Keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, row := range rows {
		for i, k := range header {
			line[i] = row.Values[k]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
