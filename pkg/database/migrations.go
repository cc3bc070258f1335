package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// column types that differ between dialects
type dialect struct {
	money     string
	timestamp string
}

func dialectFor(driver string) dialect {
	if driver == DriverPostgres {
		return dialect{money: "NUMERIC(14,2)", timestamp: "TIMESTAMPTZ"}
	}
	return dialect{money: "NUMERIC", timestamp: "DATETIME"}
}

func schema(d dialect) []string {
	r := strings.NewReplacer("{money}", d.money, "{ts}", d.timestamp)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            sku TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            cost_price {money} NOT NULL,
            sale_price {money} NOT NULL,
            created_at {ts} NOT NULL,
            updated_at {ts} NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS product_variants (
            id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            size TEXT NOT NULL,
            unique_code TEXT NOT NULL,
            position INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS product_variants_code_idx ON product_variants (LOWER(unique_code))`,
		`CREATE TABLE IF NOT EXISTS stock_levels (
            variant_id TEXT NOT NULL REFERENCES product_variants(id) ON DELETE CASCADE,
            location TEXT NOT NULL,
            quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
            PRIMARY KEY (variant_id, location)
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            type TEXT NOT NULL DEFAULT 'customer',
            total_spent {money} NOT NULL DEFAULT 0,
            last_order_date {ts},
            created_at {ts} NOT NULL,
            updated_at {ts} NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS customers_phone_idx ON customers (phone)`,
		`CREATE TABLE IF NOT EXISTS sales (
            id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL,
            product_name TEXT NOT NULL,
            size TEXT NOT NULL,
            channel TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            total_amount {money} NOT NULL,
            date {ts} NOT NULL,
            status TEXT NOT NULL,
            returned_at {ts},
            customer_id TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            customer_address TEXT NOT NULL DEFAULT '',
            customer_type TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS sales_date_idx ON sales (date)`,
		`CREATE TABLE IF NOT EXISTS expenses (
            id TEXT PRIMARY KEY,
            category TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            amount {money} NOT NULL,
            date {ts} NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS expenses_date_idx ON expenses (date)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
            id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL,
            variant_id TEXT NOT NULL,
            size TEXT NOT NULL,
            location TEXT NOT NULL,
            movement_type TEXT NOT NULL,
            quantity_change INTEGER NOT NULL,
            quantity_before INTEGER NOT NULL,
            quantity_after INTEGER NOT NULL,
            reference_type TEXT NOT NULL DEFAULT '',
            reference_id TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_by TEXT NOT NULL DEFAULT '',
            created_at {ts} NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS stock_movements_product_idx ON stock_movements (product_id, created_at)`,
	}
	for i := range stmts {
		stmts[i] = r.Replace(stmts[i])
	}
	return stmts
}

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema(dialectFor(db.DriverName())) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
