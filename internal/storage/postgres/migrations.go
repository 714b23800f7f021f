package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Money columns keep four decimal places so tier taxes such as 5.005 are
// stored without rounding.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		price       NUMERIC(18,4) NOT NULL CHECK (price > 0),
		description TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id           UUID PRIMARY KEY,
		sale_number  TEXT NOT NULL UNIQUE,
		sale_date    TIMESTAMPTZ NOT NULL,
		customer_id  UUID NOT NULL,
		branch_id    UUID NOT NULL,
		total_amount NUMERIC(18,4) NOT NULL,
		cancelled    BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id          UUID PRIMARY KEY,
		sale_id     UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		position    INT NOT NULL,
		product_id  UUID NOT NULL,
		quantity    INT NOT NULL,
		unit_price  NUMERIC(18,4) NOT NULL,
		tax_amount  NUMERIC(18,4) NOT NULL,
		total       NUMERIC(18,4) NOT NULL,
		cancelled   BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items (sale_id)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
