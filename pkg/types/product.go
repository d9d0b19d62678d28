package types

import "github.com/shopspring/decimal"

// Product is an immutable catalog record owned by the hosted backend.
// Carts only ever hold a copy of it.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageURL *string         `json:"image_url,omitempty"`
	Stock    *int            `json:"stock,omitempty"`
}
