package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
)

// Totals are the derived monetary figures for a cart. They are recomputed
// from scratch on every read and never stored; values stay unrounded so
// repeated additions cannot compound rounding error.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate derives subtotal, tax, and total from the cart lines and the
// configured tax rate. Pure; no caching, no I/O.
func Calculate(lines []cart.Line, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Display rounds a monetary value to two decimal places for presentation.
// Rounding happens only here, at the boundary; the computed totals keep full
// precision.
func Display(value decimal.Decimal) string {
	return value.StringFixed(2)
}
