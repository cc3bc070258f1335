package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

// SQLRepository works on a *sqlx.DB or a *sqlx.Tx, postgres or sqlite.
type SQLRepository struct {
	DB sqlx.ExtContext
}

func NewSQLRepository(db sqlx.ExtContext) *SQLRepository {
	return &SQLRepository{DB: db}
}

const productColumns = `id, sku, name, category, cost_price, sale_price, created_at, updated_at`

type stockRow struct {
	VariantID string         `db:"variant_id"`
	Location  model.Location `db:"location"`
	Quantity  int            `db:"quantity"`
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (id, sku, name, category, cost_price, sale_price, created_at, updated_at)
        VALUES (:id, :sku, :name, :category, :cost_price, :sale_price, :created_at, :updated_at)
    `
	row := *p
	row.BaseModel = p.BaseModel.InUTC()
	if _, err := sqlx.NamedExecContext(ctx, r.DB, query, &row); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	for i := range p.Variants {
		if err := r.insertVariant(ctx, &p.Variants[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) insertVariant(ctx context.Context, v *model.Variant) error {
	query := `
        INSERT INTO product_variants (id, product_id, size, unique_code, position)
        VALUES (:id, :product_id, :size, :unique_code, :position)
    `
	if _, err := sqlx.NamedExecContext(ctx, r.DB, query, v); err != nil {
		return fmt.Errorf("failed to insert variant %s: %w", v.Size, err)
	}
	stockQuery := r.DB.Rebind(`INSERT INTO stock_levels (variant_id, location, quantity) VALUES (?, ?, ?)`)
	for _, loc := range model.Locations {
		if _, err := r.DB.ExecContext(ctx, stockQuery, v.ID, loc, v.Stock[loc]); err != nil {
			return fmt.Errorf("failed to insert stock level: %w", err)
		}
	}
	return nil
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, r.DB, &p, r.DB.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	products := []model.Product{p}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// attachVariants loads variants and their counters for a page of products.
func (r *SQLRepository) attachVariants(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	query, args, err := sqlx.In(`
        SELECT id, product_id, size, unique_code, position FROM product_variants
        WHERE product_id IN (?)
        ORDER BY position ASC
    `, ids)
	if err != nil {
		return err
	}
	var variants []model.Variant
	if err := sqlx.SelectContext(ctx, r.DB, &variants, r.DB.Rebind(query), args...); err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}

	variantIDs := make([]string, len(variants))
	for i := range variants {
		variantIDs[i] = variants[i].ID
	}
	query, args, err = sqlx.In(`SELECT variant_id, location, quantity FROM stock_levels WHERE variant_id IN (?)`, variantIDs)
	if err != nil {
		return err
	}
	var rows []stockRow
	if err := sqlx.SelectContext(ctx, r.DB, &rows, r.DB.Rebind(query), args...); err != nil {
		return err
	}
	stock := make(map[string]model.StockLevels, len(variants))
	for _, row := range rows {
		if stock[row.VariantID] == nil {
			stock[row.VariantID] = model.StockLevels{}
		}
		stock[row.VariantID][row.Location] = row.Quantity
	}

	byProduct := make(map[string][]model.Variant, len(products))
	for _, v := range variants {
		v.Stock = stock[v.ID]
		if v.Stock == nil {
			v.Stock = model.StockLevels{}
		}
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ? LIMIT 1`, id)
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "LOWER(category) = LOWER(:category)")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(LOWER(name) LIKE :search OR LOWER(sku) LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	// Catalog order by default: the sale flow's name match picks the earliest product.
	orderBy := "created_at ASC, id ASC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "sale_price"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "desc" {
			orderBy += " DESC"
		} else {
			orderBy += " ASC"
		}
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s", productColumns, whereClause, orderBy)
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.SelectContext(ctx, r.DB, &products, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET sku = :sku,
            name = :name,
            category = :category,
            cost_price = :cost_price,
            sale_price = :sale_price,
            updated_at = :updated_at
        WHERE id = :id
    `
	row := *p
	row.BaseModel = p.BaseModel.InUTC()
	res, err := sqlx.NamedExecContext(ctx, r.DB, query, &row)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrProductNotFound
	}

	var existing []string
	if err := sqlx.SelectContext(ctx, r.DB, &existing, r.DB.Rebind(`SELECT id FROM product_variants WHERE product_id = ?`), p.ID); err != nil {
		return err
	}
	keep := make(map[string]bool, len(p.Variants))
	for i := range p.Variants {
		keep[p.Variants[i].ID] = true
	}
	for _, id := range existing {
		if !keep[id] {
			if err := r.deleteVariant(ctx, id); err != nil {
				return err
			}
		}
	}

	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	variantQuery := `
        UPDATE product_variants
        SET size = :size, unique_code = :unique_code, position = :position
        WHERE id = :id
    `
	stockQuery := r.DB.Rebind(`UPDATE stock_levels SET quantity = ? WHERE variant_id = ? AND location = ?`)
	for i := range p.Variants {
		v := &p.Variants[i]
		if !known[v.ID] {
			if err := r.insertVariant(ctx, v); err != nil {
				return err
			}
			continue
		}
		if _, err := sqlx.NamedExecContext(ctx, r.DB, variantQuery, v); err != nil {
			return fmt.Errorf("failed to update variant %s: %w", v.Size, err)
		}
		for _, loc := range model.Locations {
			if _, err := r.DB.ExecContext(ctx, stockQuery, v.Stock[loc], v.ID, loc); err != nil {
				return fmt.Errorf("failed to update stock level: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLRepository) deleteVariant(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM stock_levels WHERE variant_id = ?`), id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM product_variants WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	stmts := []string{
		`DELETE FROM stock_levels WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = ?)`,
		`DELETE FROM product_variants WHERE product_id = ?`,
		`DELETE FROM products WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(stmt), id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) FindByVariantCode(ctx context.Context, code string) (*model.Product, error) {
	return r.getOne(ctx, `
        SELECT p.id, p.sku, p.name, p.category, p.cost_price, p.sale_price, p.created_at, p.updated_at
        FROM products p
        JOIN product_variants v ON v.product_id = p.id
        WHERE LOWER(v.unique_code) = LOWER(?)
        LIMIT 1
    `, code)
}

func (r *SQLRepository) FindByNameLike(ctx context.Context, name string) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE LOWER(name) LIKE ? ORDER BY created_at ASC, id ASC LIMIT 1`,
		"%"+strings.ToLower(name)+"%")
}

func (r *SQLRepository) FindFirst(ctx context.Context) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at ASC, id ASC LIMIT 1`)
}

func (r *SQLRepository) IsCodeUnique(ctx context.Context, code, excludeProductID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM product_variants WHERE LOWER(unique_code) = LOWER(?)`
	args := []interface{}{code}
	if excludeProductID != "" {
		query += ` AND product_id != ?`
		args = append(args, excludeProductID)
	}

	err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
