package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"api_sales/internal/sales"
)

// SalesStore persists sales and their items.
type SalesStore struct {
	db *sql.DB
}

func NewSalesStore(db *sql.DB) *SalesStore {
	return &SalesStore{db: db}
}

// Add inserts the sale and all its items in one transaction. A clash on
// sale_number is reported as sales.ErrDuplicateSaleNumber.
func (s *SalesStore) Add(ctx context.Context, sale *sales.Sale) error {
	r := sale.Record()
	if r.ID == uuid.Nil {
		return sales.ErrEmptyID
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_number, sale_date, customer_id, branch_id, total_amount, cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.SaleNumber, r.SaleDate, r.CustomerID, r.BranchID, r.TotalAmount, r.Cancelled)
	if isUniqueViolation(err) {
		return sales.ErrDuplicateSaleNumber
	}
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, item := range r.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, quantity, unit_price, tax_amount, total, cancelled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, item.ID, r.ID, i, item.ProductID, item.Quantity, item.UnitPrice, item.TaxAmount, item.Total, item.Cancelled)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return tx.Commit()
}

// Save writes the mutable state of an existing sale. Rows whose values did
// not change are left alone, so the returned bool is false for a no-op save.
// A sale that is already cancelled in the database is never rewritten.
func (s *SalesStore) Save(ctx context.Context, sale *sales.Sale) (bool, error) {
	r := sale.Record()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, r.ID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, sales.ErrNotFound
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE sales SET sale_date = $2, total_amount = $3, cancelled = $4
		WHERE id = $1
		  AND cancelled = false
		  AND (sale_date, total_amount, cancelled) IS DISTINCT FROM ($2::timestamptz, $3::numeric, $4::boolean)
	`, r.ID, r.SaleDate, r.TotalAmount, r.Cancelled)
	if err != nil {
		return false, fmt.Errorf("update sale: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	for _, item := range r.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE sale_items SET tax_amount = $2, total = $3, cancelled = $4
			WHERE id = $1
			  AND (tax_amount, total, cancelled) IS DISTINCT FROM ($2::numeric, $3::numeric, $4::boolean)
		`, item.ID, item.TaxAmount, item.Total, item.Cancelled)
		if err != nil {
			return false, fmt.Errorf("update sale item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SalesStore) Read(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var r sales.SaleRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sale_number, sale_date, customer_id, branch_id, total_amount, cancelled
		FROM sales WHERE id = $1
	`, id).Scan(&r.ID, &r.SaleNumber, &r.SaleDate, &r.CustomerID, &r.BranchID, &r.TotalAmount, &r.Cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sales.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.SaleDate = r.SaleDate.UTC()

	items, err := s.loadItems(ctx, []uuid.UUID{r.ID})
	if err != nil {
		return nil, err
	}
	r.Items = items[r.ID]
	return sales.RestoreSale(r), nil
}

// GetAll returns every sale, newest first.
func (s *SalesStore) GetAll(ctx context.Context) ([]*sales.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sale_number, sale_date, customer_id, branch_id, total_amount, cancelled
		FROM sales
		ORDER BY sale_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]sales.SaleRecord, 0, 64)
	ids := make([]uuid.UUID, 0, 64)
	for rows.Next() {
		var r sales.SaleRecord
		if err := rows.Scan(&r.ID, &r.SaleNumber, &r.SaleDate, &r.CustomerID, &r.BranchID, &r.TotalAmount, &r.Cancelled); err != nil {
			return nil, err
		}
		r.SaleDate = r.SaleDate.UTC()
		records = append(records, r)
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*sales.Sale, 0, len(records))
	for _, r := range records {
		r.Items = items[r.ID]
		out = append(out, sales.RestoreSale(r))
	}
	return out, nil
}

func (s *SalesStore) ExistsBySaleNumber(ctx context.Context, saleNumber string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE sale_number = $1)`, saleNumber).Scan(&exists)
	return exists, err
}

func (s *SalesStore) loadItems(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]sales.SaleItemRecord, error) {
	out := make(map[uuid.UUID][]sales.SaleItemRecord, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(saleIDs))
	for i, id := range saleIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sale_id, id, product_id, quantity, unit_price, tax_amount, total, cancelled
		FROM sale_items
		WHERE sale_id = ANY($1::uuid[])
		ORDER BY sale_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var saleID uuid.UUID
		var it sales.SaleItemRecord
		if err := rows.Scan(&saleID, &it.ID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TaxAmount, &it.Total, &it.Cancelled); err != nil {
			return nil, err
		}
		out[saleID] = append(out[saleID], it)
	}
	return out, rows.Err()
}
