package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"api_sales/internal/events"
	dErrors "api_sales/pkg/domain-errors"
)

// now is the clock used for cancellation timestamps.
var now = func() time.Time { return time.Now().UTC() }

// ItemInput describes one line of a sale before it is priced.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// SaleItem is a priced line owned by a Sale. Only the Sale creates items.
type SaleItem struct {
	id        uuid.UUID
	productID uuid.UUID
	quantity  int
	unitPrice decimal.Decimal
	taxAmount decimal.Decimal
	total     decimal.Decimal
	cancelled bool
}

func newSaleItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if quantity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "quantity must be positive")
	}
	if !unitPrice.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "unit price must be positive")
	}
	if productID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "product ID cannot be empty")
	}

	item := &SaleItem{
		id:        uuid.New(),
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
	}
	item.taxAmount, item.total = CalculateTax(quantity, unitPrice)
	return item, nil
}

func (i *SaleItem) ID() uuid.UUID              { return i.id }
func (i *SaleItem) ProductID() uuid.UUID       { return i.productID }
func (i *SaleItem) Quantity() int              { return i.quantity }
func (i *SaleItem) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *SaleItem) TaxAmount() decimal.Decimal { return i.taxAmount }
func (i *SaleItem) Total() decimal.Decimal     { return i.total }
func (i *SaleItem) Cancelled() bool            { return i.cancelled }

// Sale is the aggregate root of a commercial transaction. All state changes go
// through its methods; the total is always derived from the items.
type Sale struct {
	id          uuid.UUID
	saleNumber  string
	saleDate    time.Time
	customerID  uuid.UUID
	branchID    uuid.UUID
	totalAmount decimal.Decimal
	cancelled   bool
	items       []*SaleItem

	pending []events.Event
}

// NewSale validates its inputs, prices every item and records a SaleCreated
// event carrying the final total.
//
// A nil items slice is rejected as an invalid argument; an empty one is
// accepted here and left to request validation.
func NewSale(saleNumber string, saleDate time.Time, customerID, branchID uuid.UUID, items []ItemInput) (*Sale, error) {
	if strings.TrimSpace(saleNumber) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "sale number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "customer ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "branch ID cannot be empty")
	}
	if items == nil {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "items cannot be nil")
	}

	s := &Sale{
		id:         uuid.New(),
		saleNumber: saleNumber,
		saleDate:   saleDate,
		customerID: customerID,
		branchID:   branchID,
		items:      make([]*SaleItem, 0, len(items)),
	}
	for _, in := range items {
		if err := s.addItem(in); err != nil {
			return nil, err
		}
	}
	s.recalculateTotal()

	s.pending = append(s.pending, SaleCreated{
		SaleID:      s.id,
		SaleDate:    s.saleDate,
		CustomerID:  s.customerID,
		TotalAmount: s.totalAmount,
	})
	return s, nil
}

func (s *Sale) addItem(in ItemInput) error {
	if in.Quantity > MaxItemQuantity {
		return dErrors.Newf(dErrors.CodeDomainRule,
			"cannot add more than %d pieces of the same item to a sale", MaxItemQuantity)
	}
	item, err := newSaleItem(in.ProductID, in.Quantity, in.UnitPrice)
	if err != nil {
		return err
	}
	s.items = append(s.items, item)
	return nil
}

// CancelSale moves an active sale to Cancelled, stamps the sale date with the
// cancellation moment, zeroes the total and records SaleCancelled. Calling it
// on a cancelled sale does nothing.
func (s *Sale) CancelSale() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.saleDate = now()
	s.recalculateTotal()

	s.pending = append(s.pending, SaleCancelled{
		SaleID:           s.id,
		CancellationDate: s.saleDate,
	})
}

func (s *Sale) recalculateTotal() {
	if s.cancelled {
		s.totalAmount = decimal.Zero
		return
	}
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.total)
	}
	s.totalAmount = total
}

// PendingEvents returns the events recorded since the last ClearEvents, in
// the order they were recorded.
func (s *Sale) PendingEvents() []events.Event {
	out := make([]events.Event, len(s.pending))
	copy(out, s.pending)
	return out
}

// ClearEvents drops all pending events. Callers invoke it after dispatch.
func (s *Sale) ClearEvents() {
	s.pending = nil
}

func (s *Sale) ID() uuid.UUID                { return s.id }
func (s *Sale) SaleNumber() string           { return s.saleNumber }
func (s *Sale) SaleDate() time.Time          { return s.saleDate }
func (s *Sale) CustomerID() uuid.UUID        { return s.customerID }
func (s *Sale) BranchID() uuid.UUID          { return s.branchID }
func (s *Sale) TotalAmount() decimal.Decimal { return s.totalAmount }
func (s *Sale) Cancelled() bool              { return s.cancelled }

// Items returns the sale lines in input order.
func (s *Sale) Items() []*SaleItem {
	out := make([]*SaleItem, len(s.items))
	copy(out, s.items)
	return out
}
