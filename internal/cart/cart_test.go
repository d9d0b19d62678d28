package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

func product(id, name string, price string) types.Product {
	return types.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "coffee",
	}
}

func TestAddItemCollapsesDuplicateProducts(t *testing.T) {
	t.Parallel()

	c := New()
	americano := product("1", "Americano", "4.99")
	latte := product("2", "Latte", "5.49")

	c.AddItem(americano)
	c.AddItem(latte)
	c.AddItem(americano)
	c.AddItem(americano)

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(lines))
	}
	if lines[0].Product.ID != "1" || lines[0].Quantity != 3 {
		t.Fatalf("expected first line to be product 1 x3, got %+v", lines[0])
	}
	if lines[1].Product.ID != "2" || lines[1].Quantity != 1 {
		t.Fatalf("expected second line to be product 2 x1, got %+v", lines[1])
	}
	if c.ItemCount() != 4 {
		t.Fatalf("expected 4 items total, got %d", c.ItemCount())
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New()
	for _, id := range []string{"3", "1", "2"} {
		c.AddItem(product(id, "P"+id, "1.00"))
	}

	lines := c.Lines()
	for i, want := range []string{"3", "1", "2"} {
		if lines[i].Product.ID != want {
			t.Fatalf("expected line %d to be product %s, got %s", i, want, lines[i].Product.ID)
		}
	}
}

func TestUpdateQuantityAdjustsAndRemoves(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(product("1", "Americano", "4.99"))
	c.AddItem(product("2", "Latte", "5.49"))
	c.AddItem(product("1", "Americano", "4.99"))

	c.UpdateQuantity("1", 3)
	if lines := c.Lines(); lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}

	// dropping to exactly zero removes the line, never keeps it at zero
	c.UpdateQuantity("1", -5)
	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected line removed, got %d lines", len(lines))
	}
	if lines[0].Product.ID != "2" {
		t.Fatalf("wrong line survived: %+v", lines[0])
	}

	c.UpdateQuantity("2", -10)
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestUpdateQuantityUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(product("1", "Americano", "4.99"))
	before := c.Lines()

	c.UpdateQuantity("missing", -1)

	after := c.Lines()
	if len(after) != len(before) {
		t.Fatalf("cart length changed: %d -> %d", len(before), len(after))
	}
	if after[0] != before[0] {
		t.Fatalf("line contents changed: %+v -> %+v", before[0], after[0])
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(product("1", "Americano", "4.99"))
	c.AddItem(product("2", "Latte", "5.49"))

	c.Clear()
	if c.Len() != 0 || c.ItemCount() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestLinesReturnsSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(product("1", "Americano", "4.99"))

	lines := c.Lines()
	lines[0].Quantity = 99

	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("mutating snapshot leaked into cart: quantity %d", got)
	}
}

func TestBeginCheckoutIsExclusive(t *testing.T) {
	t.Parallel()

	c := New()
	if !c.BeginCheckout() {
		t.Fatal("first checkout should acquire the cart")
	}
	if c.BeginCheckout() {
		t.Fatal("second checkout should be rejected while one is in flight")
	}
	c.EndCheckout()
	if !c.BeginCheckout() {
		t.Fatal("checkout should be available again after release")
	}
}
