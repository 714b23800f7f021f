package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is the durable state of a Sale. Pending events are not part of
// it. Storage implementations persist records and rebuild sales from them.
type SaleRecord struct {
	ID          uuid.UUID
	SaleNumber  string
	SaleDate    time.Time
	CustomerID  uuid.UUID
	BranchID    uuid.UUID
	TotalAmount decimal.Decimal
	Cancelled   bool
	Items       []SaleItemRecord
}

// SaleItemRecord is the durable state of a SaleItem.
type SaleItemRecord struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Cancelled bool
}

// Record snapshots the durable state of s.
func (s *Sale) Record() SaleRecord {
	r := SaleRecord{
		ID:          s.id,
		SaleNumber:  s.saleNumber,
		SaleDate:    s.saleDate,
		CustomerID:  s.customerID,
		BranchID:    s.branchID,
		TotalAmount: s.totalAmount,
		Cancelled:   s.cancelled,
		Items:       make([]SaleItemRecord, 0, len(s.items)),
	}
	for _, item := range s.items {
		r.Items = append(r.Items, SaleItemRecord{
			ID:        item.id,
			ProductID: item.productID,
			Quantity:  item.quantity,
			UnitPrice: item.unitPrice,
			TaxAmount: item.taxAmount,
			Total:     item.total,
			Cancelled: item.cancelled,
		})
	}
	return r
}

// RestoreSale rebuilds a sale from storage. Stored values are trusted and no
// events are recorded.
func RestoreSale(r SaleRecord) *Sale {
	s := &Sale{
		id:          r.ID,
		saleNumber:  r.SaleNumber,
		saleDate:    r.SaleDate,
		customerID:  r.CustomerID,
		branchID:    r.BranchID,
		totalAmount: r.TotalAmount,
		cancelled:   r.Cancelled,
		items:       make([]*SaleItem, 0, len(r.Items)),
	}
	for _, ir := range r.Items {
		s.items = append(s.items, &SaleItem{
			id:        ir.ID,
			productID: ir.ProductID,
			quantity:  ir.Quantity,
			unitPrice: ir.UnitPrice,
			taxAmount: ir.TaxAmount,
			total:     ir.Total,
			cancelled: ir.Cancelled,
		})
	}
	return s
}

// sameState reports whether two records hold the same durable state.
func (r SaleRecord) sameState(o SaleRecord) bool {
	if r.ID != o.ID || r.SaleNumber != o.SaleNumber || !r.SaleDate.Equal(o.SaleDate) ||
		r.CustomerID != o.CustomerID || r.BranchID != o.BranchID ||
		!r.TotalAmount.Equal(o.TotalAmount) || r.Cancelled != o.Cancelled ||
		len(r.Items) != len(o.Items) {
		return false
	}
	for i := range r.Items {
		a, b := r.Items[i], o.Items[i]
		if a.ID != b.ID || a.ProductID != b.ProductID || a.Quantity != b.Quantity ||
			!a.UnitPrice.Equal(b.UnitPrice) || !a.TaxAmount.Equal(b.TaxAmount) ||
			!a.Total.Equal(b.Total) || a.Cancelled != b.Cancelled {
			return false
		}
	}
	return true
}
