package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"api_sales/internal/products"
)

// ProductStore persists the product catalog. It also serves as the catalog
// consulted during sale creation.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Add(ctx context.Context, p *products.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, title, price, description, category)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Title, p.Price, p.Description, p.Category)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *ProductStore) Save(ctx context.Context, p *products.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET title = $2, price = $3, description = $4, category = $5
		WHERE id = $1
	`, p.ID, p.Title, p.Price, p.Description, p.Category)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return products.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Read(ctx context.Context, id uuid.UUID) (*products.Product, error) {
	var p products.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, price, description, category FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, products.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) GetAll(ctx context.Context) ([]*products.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, price, description, category FROM products ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*products.Product, 0, 64)
	for rows.Next() {
		var p products.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Category); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *ProductStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetPrice returns the catalog price, invalid when the product is unknown.
func (s *ProductStore) GetPrice(ctx context.Context, id uuid.UUID) (decimal.NullDecimal, error) {
	var price decimal.NullDecimal
	err := s.db.QueryRowContext(ctx, `SELECT price FROM products WHERE id = $1`, id).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.NullDecimal{}, nil
	}
	return price, err
}
