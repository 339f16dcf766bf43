// Package money computes checkout totals in integer minor currency units.
package money

// Default pricing parameters applied when a catalog does not override them.
const (
	// DefaultTaxRateBasisPoints is the sales tax rate in basis points (8.5%).
	DefaultTaxRateBasisPoints int64 = 850
	// DefaultShippingFlatRate is the flat shipping charge in minor units.
	DefaultShippingFlatRate int64 = 500
)

// Totals holds the derived monetary breakdown of a checkout.
// Every field is an integer amount in minor currency units.
type Totals struct {
	Subtotal int64
	Tax      int64
	Shipping int64
	Total    int64
}

// Line is the minimal view of a line item needed for pricing.
type Line struct {
	UnitPrice int64
	Quantity  int64
}

// Compute derives totals from line items using integer arithmetic only.
//
// Tax is computed once on the subtotal and rounded half up, never summed
// from per-line roundings. Shipping is a flat rate charged only when at
// least one line item exists.
func Compute(lines []Line, taxRateBasisPoints, shippingFlatRate int64) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * line.Quantity
	}

	var shipping int64
	if len(lines) > 0 {
		shipping = shippingFlatRate
	}

	tax := RoundHalfUpBasisPoints(subtotal, taxRateBasisPoints)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}

// RoundHalfUpBasisPoints multiplies amount by a basis-point rate and rounds
// half up to the nearest minor unit.
func RoundHalfUpBasisPoints(amount, basisPoints int64) int64 {
	return (amount*basisPoints + 5000) / 10000
}
