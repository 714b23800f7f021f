package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleOutput is the read projection of a sale returned to callers.
type SaleOutput struct {
	ID          uuid.UUID        `json:"id"`
	SaleNumber  string           `json:"sale_number"`
	Date        time.Time        `json:"date"`
	CustomerID  uuid.UUID        `json:"customer_id"`
	BranchID    uuid.UUID        `json:"branch_id"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Cancelled   bool             `json:"cancelled"`
	Items       []SaleItemOutput `json:"items"`
}

// SaleItemOutput is the read projection of one sale line.
type SaleItemOutput struct {
	ID         uuid.UUID       `json:"id"`
	SaleID     uuid.UUID       `json:"sale_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxApplied decimal.Decimal `json:"tax_applied"`
	Total      decimal.Decimal `json:"total"`
	Cancelled  bool            `json:"cancelled"`
}

// NewSaleOutput flattens sale into its projection.
func NewSaleOutput(sale *Sale) SaleOutput {
	out := SaleOutput{
		ID:          sale.ID(),
		SaleNumber:  sale.SaleNumber(),
		Date:        sale.SaleDate(),
		CustomerID:  sale.CustomerID(),
		BranchID:    sale.BranchID(),
		TotalAmount: sale.TotalAmount(),
		Cancelled:   sale.Cancelled(),
		Items:       make([]SaleItemOutput, 0, len(sale.items)),
	}
	for _, item := range sale.items {
		out.Items = append(out.Items, SaleItemOutput{
			ID:         item.ID(),
			SaleID:     sale.ID(),
			ProductID:  item.ProductID(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			TaxApplied: item.TaxAmount(),
			Total:      item.Total(),
			Cancelled:  item.Cancelled(),
		})
	}
	return out
}
