package sales

import "github.com/shopspring/decimal"

// MaxItemQuantity is the largest quantity of one product a sale may carry.
const MaxItemQuantity = 20

var (
	rateNone     = decimal.Zero
	rateStandard = decimal.RequireFromString("0.10")
	rateBulk     = decimal.RequireFromString("0.20")
)

// TaxRate returns the tier rate for quantity: nothing up to 4 units, 10%
// from 5 to 9 and 20% from 10 to 20.
func TaxRate(quantity int) decimal.Decimal {
	switch {
	case quantity > 4 && quantity < 10:
		return rateStandard
	case quantity >= 10 && quantity <= MaxItemQuantity:
		return rateBulk
	default:
		return rateNone
	}
}

// CalculateTax returns the tax amount and the line total for quantity units
// at unitPrice. Arithmetic is exact; nothing is rounded.
func CalculateTax(quantity int, unitPrice decimal.Decimal) (tax, total decimal.Decimal) {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	tax = gross.Mul(TaxRate(quantity))
	return tax, gross.Add(tax)
}
