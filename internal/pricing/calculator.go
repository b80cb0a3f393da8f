// Package pricing computes per-seat prices for arrangements.  The
// calculation is pure arithmetic: callers validate inputs and apply
// currency rounding at presentation boundaries, never here.
package pricing

// UnitPrice returns the discounted per-seat price for an arrangement.
// basePrice is the undiscounted price and discountPercent is expected to
// be in [0,100] (validated by callers).  When the discount is zero or
// negative the base price is returned unchanged.
func UnitPrice(basePrice, discountPercent float64) float64 {
	if discountPercent > 0 {
		return basePrice - basePrice*(discountPercent/100)
	}
	return basePrice
}

// Total returns the full price for seatCount seats at the given unit price.
func Total(unitPrice float64, seatCount uint32) float64 {
	return unitPrice * float64(seatCount)
}
