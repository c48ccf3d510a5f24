package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// ProductRepository handles data access for product aggregates. Aggregate
// writes run in a single serializable transaction so concurrent writers can
// never both claim the same handle or leave a half-written aggregate.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// txTimeout bounds aggregate transactions end to end.
const txTimeout = 10 * time.Second

// IsSerializationFailure reports whether err is a Postgres serialization
// conflict (SQLSTATE 40001), which the caller may retry.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}

// translateError maps driver errors onto the application taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", utils.ErrConflict, pqErr.Constraint)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// productRow is the flat scan target for the products table.
type productRow struct {
	ID              string    `db:"id"`
	StoreID         string    `db:"store_id"`
	Name            string    `db:"name"`
	Handle          string    `db:"handle"`
	Description     string    `db:"description"`
	IsFeatured      bool      `db:"is_featured"`
	IsArchived      bool      `db:"is_archived"`
	ManageVariants  bool      `db:"manage_variants"`
	Weight          *float64  `db:"weight"`
	Currency        string    `db:"currency"`
	Price           float64   `db:"price"`
	DiscountedPrice *float64  `db:"discounted_price"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (row *productRow) toModel() models.Product {
	return models.Product{
		ID:             row.ID,
		StoreID:        row.StoreID,
		Name:           row.Name,
		Handle:         row.Handle,
		Description:    row.Description,
		IsFeatured:     row.IsFeatured,
		IsArchived:     row.IsArchived,
		ManageVariants: row.ManageVariants,
		Weight:         row.Weight,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Price: models.PriceData{
			Currency:         row.Currency,
			Amount:           row.Price,
			DiscountedAmount: row.DiscountedPrice,
		},
	}
}

type variantRow struct {
	ID              string   `db:"id"`
	ProductID       string   `db:"product_id"`
	Title           string   `db:"title"`
	Currency        string   `db:"currency"`
	Price           float64  `db:"price"`
	DiscountedPrice *float64 `db:"discounted_price"`
	ItemCost        *float64 `db:"item_cost"`
	Profit          *float64 `db:"profit"`
	Margin          *float64 `db:"margin"`
	TrackInventory  *bool    `db:"track_inventory"`
	Quantity        int      `db:"quantity"`
	InventoryStatus string   `db:"inventory_status"`
}

// HandleExists reports whether another product of the store already uses the
// handle. excludeID may be empty on the create path.
func (r *ProductRepository) HandleExists(ctx context.Context, storeID, handle, excludeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM products WHERE store_id = $1 AND handle = $2 AND id != $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, storeID, handle, excludeID); err != nil {
		return false, err
	}
	return exists, nil
}

// GetByID returns the full product aggregate.
func (r *ProductRepository) GetByID(ctx context.Context, storeID, id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE store_id = $1 AND id = $2 LIMIT 1`
	var row productRow
	if err := r.db.GetContext(ctx, &row, q, storeID, id); err != nil {
		return nil, translateError(err)
	}
	p := row.toModel()
	if err := r.loadChildren(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns product aggregates of a store ordered by creation time,
// newest first, with pagination and an optional archived filter.
func (r *ProductRepository) List(ctx context.Context, storeID string, includeArchived bool, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE store_id = $1 AND ($2 OR is_archived = FALSE)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+baseWhere, storeID, includeArchived); err != nil {
		return nil, 0, err
	}

	var rows []productRow
	listQuery := `SELECT * FROM products ` + baseWhere + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, listQuery, storeID, includeArchived, limit, offset); err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0, len(rows))
	for i := range rows {
		p := rows[i].toModel()
		if err := r.loadChildren(ctx, &p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, nil
}

// loadChildren populates the owned collections of a product.
func (r *ProductRepository) loadChildren(ctx context.Context, p *models.Product) error {
	// Cost, stock, discount (each at most one row)
	var cost struct {
		ItemCost        float64 `db:"item_cost"`
		Profit          float64 `db:"profit"`
		Margin          float64 `db:"margin"`
		FormattedCost   string  `db:"formatted_cost"`
		FormattedProfit string  `db:"formatted_profit"`
	}
	err := r.db.GetContext(ctx, &cost, `SELECT item_cost, profit, margin, formatted_cost, formatted_profit FROM product_costs WHERE product_id = $1`, p.ID)
	if err == nil {
		p.CostProfit = &models.CostAndProfitData{
			ItemCost:        cost.ItemCost,
			Profit:          cost.Profit,
			ProfitMargin:    cost.Margin,
			FormattedCost:   cost.FormattedCost,
			FormattedProfit: cost.FormattedProfit,
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var stock struct {
		TrackInventory  bool   `db:"track_inventory"`
		Quantity        int    `db:"quantity"`
		InventoryStatus string `db:"inventory_status"`
	}
	err = r.db.GetContext(ctx, &stock, `SELECT track_inventory, quantity, inventory_status FROM product_stocks WHERE product_id = $1`, p.ID)
	if err == nil {
		p.Stock = &models.Stock{
			TrackInventory:  stock.TrackInventory,
			Quantity:        stock.Quantity,
			InventoryStatus: models.InventoryStatus(stock.InventoryStatus),
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var discount struct {
		Value float64 `db:"value"`
		Type  string  `db:"type"`
	}
	err = r.db.GetContext(ctx, &discount, `SELECT value, type FROM product_discounts WHERE product_id = $1`, p.ID)
	if err == nil {
		p.Discount = &models.Discount{Value: discount.Value, Type: models.DiscountType(discount.Type)}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if err := r.db.SelectContext(ctx, &p.Images, `SELECT url, position FROM product_images WHERE product_id = $1 ORDER BY position`, p.ID); err != nil {
		return err
	}
	if err := r.db.SelectContext(ctx, &p.InfoSections, `SELECT title, description, position FROM product_info_sections WHERE product_id = $1 ORDER BY position`, p.ID); err != nil {
		return err
	}
	if err := r.db.SelectContext(ctx, &p.CategoryIDs, `SELECT category_id FROM product_categories WHERE product_id = $1 ORDER BY category_id`, p.ID); err != nil {
		return err
	}

	// Options with values
	var options []models.Option
	if err := r.db.SelectContext(ctx, &options, `SELECT id, product_id, name, position FROM product_options WHERE product_id = $1 ORDER BY position`, p.ID); err != nil {
		return err
	}
	for i := range options {
		if err := r.db.SelectContext(ctx, &options[i].Values, `SELECT id, option_id, value, position FROM option_values WHERE option_id = $1 ORDER BY position`, options[i].ID); err != nil {
			return err
		}
	}
	p.Options = options

	// Variants with their selected values
	var vrows []variantRow
	if err := r.db.SelectContext(ctx, &vrows, `SELECT * FROM variants WHERE product_id = $1 ORDER BY title`, p.ID); err != nil {
		return err
	}
	variants := make([]models.Variant, 0, len(vrows))
	for _, vr := range vrows {
		v := models.Variant{
			ID:        vr.ID,
			ProductID: vr.ProductID,
			Title:     vr.Title,
			Price: models.PriceData{
				Currency:         vr.Currency,
				Amount:           vr.Price,
				DiscountedAmount: vr.DiscountedPrice,
			},
		}
		if vr.ItemCost != nil {
			v.CostProfit = &models.CostAndProfitData{
				ItemCost:     *vr.ItemCost,
				Profit:       derefFloat(vr.Profit),
				ProfitMargin: derefFloat(vr.Margin),
			}
		}
		if vr.TrackInventory != nil {
			v.Stock = &models.Stock{
				TrackInventory:  *vr.TrackInventory,
				Quantity:        vr.Quantity,
				InventoryStatus: models.InventoryStatus(vr.InventoryStatus),
			}
		}
		if err := r.db.SelectContext(ctx, &v.SelectedValueIDs, `SELECT option_value_id FROM variant_option_values WHERE variant_id = $1 ORDER BY option_value_id`, vr.ID); err != nil {
			return err
		}
		variants = append(variants, v)
	}
	p.Variants = variants
	return nil
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// CreateAggregate persists the product with all owned children in one
// serializable transaction.
func (r *ProductRepository) CreateAggregate(ctx context.Context, p *models.Product) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
            INSERT INTO products (id, store_id, name, handle, description, is_featured, is_archived,
                manage_variants, weight, currency, price, discounted_price)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
            RETURNING created_at, updated_at`
		err := tx.QueryRowxContext(ctx, q,
			p.ID, p.StoreID, p.Name, p.Handle, p.Description, p.IsFeatured, p.IsArchived,
			p.ManageVariants, p.Weight, p.Price.Currency, p.Price.Amount, p.Price.DiscountedAmount,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}
		return r.writeChildren(ctx, tx, p, true, true)
	})
}

// UpdateAggregate rewrites the product row and replaces its owned children.
// Images, info sections, and category links are always replaced; options and
// variants are replaced only when the respective flag is set (payload carried
// them). Cost, stock, and discount use upsert-or-delete semantics.
func (r *ProductRepository) UpdateAggregate(ctx context.Context, p *models.Product, replaceOptions, replaceVariants bool) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
            UPDATE products SET name = $3, handle = $4, description = $5, is_featured = $6,
                is_archived = $7, manage_variants = $8, weight = $9, currency = $10,
                price = $11, discounted_price = $12, updated_at = NOW()
            WHERE store_id = $1 AND id = $2
            RETURNING updated_at`
		err := tx.QueryRowxContext(ctx, q,
			p.StoreID, p.ID, p.Name, p.Handle, p.Description, p.IsFeatured,
			p.IsArchived, p.ManageVariants, p.Weight, p.Price.Currency,
			p.Price.Amount, p.Price.DiscountedAmount,
		).Scan(&p.UpdatedAt)
		if err != nil {
			return translateError(err)
		}
		return r.writeChildren(ctx, tx, p, replaceOptions, replaceVariants)
	})
}

// inTx runs fn inside a serializable transaction and translates errors.
func (r *ProductRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return translateError(err)
	}
	return nil
}

// writeChildren persists the owned collections inside the aggregate
// transaction. Collections use delete-then-recreate; the 1:1 rows upsert.
func (r *ProductRepository) writeChildren(ctx context.Context, tx *sqlx.Tx, p *models.Product, replaceOptions, replaceVariants bool) error {
	// Cost and profit: upsert when present, delete otherwise.
	if p.CostProfit != nil {
		const q = `
            INSERT INTO product_costs (product_id, item_cost, profit, margin, formatted_cost, formatted_profit)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (product_id) DO UPDATE SET
                item_cost = EXCLUDED.item_cost, profit = EXCLUDED.profit, margin = EXCLUDED.margin,
                formatted_cost = EXCLUDED.formatted_cost, formatted_profit = EXCLUDED.formatted_profit`
		if _, err := tx.ExecContext(ctx, q, p.ID, p.CostProfit.ItemCost, p.CostProfit.Profit,
			p.CostProfit.ProfitMargin, p.CostProfit.FormattedCost, p.CostProfit.FormattedProfit); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_costs WHERE product_id = $1`, p.ID); err != nil {
			return err
		}
	}

	// Stock: a product tracks inventory either at its own level or at the
	// variant level, never both. With manageVariants set, the product-level
	// stock row is removed.
	if p.Stock != nil && !p.ManageVariants {
		const q = `
            INSERT INTO product_stocks (product_id, track_inventory, quantity, inventory_status)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (product_id) DO UPDATE SET
                track_inventory = EXCLUDED.track_inventory, quantity = EXCLUDED.quantity,
                inventory_status = EXCLUDED.inventory_status`
		if _, err := tx.ExecContext(ctx, q, p.ID, p.Stock.TrackInventory, p.Stock.Quantity, string(p.Stock.InventoryStatus)); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_stocks WHERE product_id = $1`, p.ID); err != nil {
			return err
		}
	}

	// Discount: upsert or delete.
	if p.Discount != nil {
		const q = `
            INSERT INTO product_discounts (product_id, value, type)
            VALUES ($1, $2, $3)
            ON CONFLICT (product_id) DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type`
		if _, err := tx.ExecContext(ctx, q, p.ID, p.Discount.Value, string(p.Discount.Type)); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_discounts WHERE product_id = $1`, p.ID); err != nil {
			return err
		}
	}

	// Images: replace-all, order preserved as submitted.
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for i, img := range p.Images {
		if _, err := tx.ExecContext(ctx, `INSERT INTO product_images (product_id, url, position) VALUES ($1, $2, $3)`, p.ID, img.URL, i); err != nil {
			return err
		}
	}

	// Additional info sections: replace-all.
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_info_sections WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for i, sec := range p.InfoSections {
		if _, err := tx.ExecContext(ctx, `INSERT INTO product_info_sections (product_id, title, description, position) VALUES ($1, $2, $3, $4)`, p.ID, sec.Title, sec.Description, i); err != nil {
			return err
		}
	}

	// Category links: replace-all.
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for _, catID := range p.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, p.ID, catID); err != nil {
			return err
		}
	}

	if replaceOptions {
		if err := r.writeOptions(ctx, tx, p); err != nil {
			return err
		}
	}
	if replaceVariants {
		if err := r.writeVariants(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

// writeOptions deletes all option rows of the product (cascading values and
// join rows) and recreates them from the payload.
func (r *ProductRepository) writeOptions(ctx context.Context, tx *sqlx.Tx, p *models.Product) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_options WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for i := range p.Options {
		opt := &p.Options[i]
		opt.ProductID = p.ID
		opt.Position = i
		const q = `INSERT INTO product_options (id, product_id, name, position) VALUES ($1, $2, $3, $4) ON CONFLICT (product_id, name) DO NOTHING`
		if _, err := tx.ExecContext(ctx, q, opt.ID, p.ID, opt.Name, i); err != nil {
			return err
		}
		for j := range opt.Values {
			val := &opt.Values[j]
			val.OptionID = opt.ID
			val.Position = j
			const vq = `INSERT INTO option_values (id, option_id, value, position) VALUES ($1, $2, $3, $4) ON CONFLICT (option_id, value) DO NOTHING`
			if _, err := tx.ExecContext(ctx, vq, val.ID, opt.ID, val.Value, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeVariants deletes all variant rows of the product and recreates them,
// linking each variant to the option values its decomposed title selects.
func (r *ProductRepository) writeVariants(ctx context.Context, tx *sqlx.Tx, p *models.Product) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = $1`, p.ID); err != nil {
		return err
	}

	// Resolve (option name, value) -> option value id from the freshly
	// written options of this transaction.
	valueIDs := make(map[models.OptionSelection]string)
	for _, opt := range p.Options {
		for _, val := range opt.Values {
			valueIDs[models.OptionSelection{OptionName: opt.Name, Value: val.Value}] = val.ID
		}
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID

		var itemCost, profit, margin *float64
		if v.CostProfit != nil {
			itemCost, profit, margin = &v.CostProfit.ItemCost, &v.CostProfit.Profit, &v.CostProfit.ProfitMargin
		}
		var trackInventory *bool
		quantity := 0
		inventoryStatus := string(models.InventoryInStock)
		if v.Stock != nil {
			trackInventory = &v.Stock.TrackInventory
			quantity = v.Stock.Quantity
			if v.Stock.InventoryStatus != "" {
				inventoryStatus = string(v.Stock.InventoryStatus)
			}
		}

		const q = `
            INSERT INTO variants (id, product_id, title, currency, price, discounted_price,
                item_cost, profit, margin, track_inventory, quantity, inventory_status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		if _, err := tx.ExecContext(ctx, q, v.ID, p.ID, v.Title, v.Price.Currency, v.Price.Amount,
			v.Price.DiscountedAmount, itemCost, profit, margin, trackInventory, quantity, inventoryStatus); err != nil {
			return err
		}

		v.SelectedValueIDs = v.SelectedValueIDs[:0]
		for _, sel := range v.Selections {
			valueID, ok := valueIDs[sel]
			if !ok {
				return fmt.Errorf("%w: variant %q references unknown option value %q", utils.ErrInvalidVariant, v.Title, sel.Value)
			}
			const jq = `INSERT INTO variant_option_values (variant_id, option_value_id) VALUES ($1, $2)`
			if _, err := tx.ExecContext(ctx, jq, v.ID, valueID); err != nil {
				return err
			}
			v.SelectedValueIDs = append(v.SelectedValueIDs, valueID)
		}
	}
	return nil
}

// Delete removes a product; owned children cascade.
func (r *ProductRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
