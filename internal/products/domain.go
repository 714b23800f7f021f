package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dErrors "api_sales/pkg/domain-errors"
)

// Product is a catalog entry referenced by sale items.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// NewProduct validates and builds a product. A nil id is replaced by a new one.
func NewProduct(id uuid.UUID, title string, price decimal.Decimal, description, category string) (*Product, error) {
	if !price.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "price must be positive")
	}
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "title cannot be empty")
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Description: description,
		Category:    category,
	}, nil
}

// UpdatePrice changes the catalog price. Existing sales keep the price they
// were sold at.
func (p *Product) UpdatePrice(newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return dErrors.New(dErrors.CodeInvalidArgument, "price must be positive")
	}
	p.Price = newPrice
	return nil
}

// ProductCreated is published after a product is stored.
type ProductCreated struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e ProductCreated) EventName() string      { return "ProductCreated" }
func (e ProductCreated) AggregateID() uuid.UUID { return e.ProductID }
func (e ProductCreated) OccurredAt() time.Time  { return e.CreatedAt }
