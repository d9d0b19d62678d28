package cart

import (
	"sync"

	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

// Line is one product plus its quantity in the active cart. At most one line
// exists per product id and quantity is always at least 1.
type Line struct {
	Product  types.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Cart holds the ordered selection for a single terminal session. Insertion
// order is preserved so the UI renders lines stably; the last added product
// appears last. Nothing here touches I/O and nothing is persisted.
type Cart struct {
	mu         sync.Mutex
	lines      []Line
	submitting bool
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. It never fails.
func (c *Cart) AddItem(product types.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: 1})
}

// UpdateQuantity adjusts the line for the given product id by delta. A
// resulting quantity of zero or below removes the line entirely. An unknown
// id is a no-op.
func (c *Cart) UpdateQuantity(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID != id {
			continue
		}
		if next := c.lines[i].Quantity + delta; next > 0 {
			c.lines[i].Quantity = next
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a snapshot copy of the current lines in insertion order.
// Mutating the returned slice does not affect the cart.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]Line, len(c.lines))
	copy(snapshot, c.lines)
	return snapshot
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// ItemCount reports the total quantity across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// BeginCheckout marks the cart as having a submission in flight. It reports
// false when another submission already holds the cart, enforcing a single
// in-flight checkout per cart.
func (c *Cart) BeginCheckout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

// EndCheckout releases the in-flight marker once a submission resolves.
func (c *Cart) EndCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
}

// CheckoutInFlight reports whether a submission currently holds the cart.
func (c *Cart) CheckoutInFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}
