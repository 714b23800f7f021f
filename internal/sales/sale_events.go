package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCreated is recorded once when a sale is constructed.
type SaleCreated struct {
	SaleID      uuid.UUID       `json:"sale_id"`
	SaleDate    time.Time       `json:"sale_date"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (e SaleCreated) EventName() string      { return "SaleCreated" }
func (e SaleCreated) AggregateID() uuid.UUID { return e.SaleID }
func (e SaleCreated) OccurredAt() time.Time  { return e.SaleDate }

// SaleCancelled is recorded once when an active sale is cancelled.
type SaleCancelled struct {
	SaleID           uuid.UUID `json:"sale_id"`
	CancellationDate time.Time `json:"cancellation_date"`
}

func (e SaleCancelled) EventName() string      { return "SaleCancelled" }
func (e SaleCancelled) AggregateID() uuid.UUID { return e.SaleID }
func (e SaleCancelled) OccurredAt() time.Time  { return e.CancellationDate }
