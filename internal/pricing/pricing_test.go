package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

func line(id, price string, qty int) cart.Line {
	return cart.Line{
		Product:  types.Product{ID: id, Name: "P" + id, Price: decimal.RequireFromString(price)},
		Quantity: qty,
	}
}

func TestCalculateEmptyCart(t *testing.T) {
	t.Parallel()

	totals := Calculate(nil, decimal.RequireFromString("0.055"))
	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestCalculateSumsLines(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{
		line("1", "4.99", 2),
		line("2", "3.50", 1),
	}
	totals := Calculate(lines, decimal.RequireFromString("0.055"))

	if !totals.Subtotal.Equal(decimal.RequireFromString("13.48")) {
		t.Fatalf("expected subtotal 13.48, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.RequireFromString("0.7414")) {
		t.Fatalf("expected tax 0.7414, got %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.RequireFromString("14.2214")) {
		t.Fatalf("expected total 14.2214, got %s", totals.Total)
	}
}

// Two units at 4.99 with a 10% rate: the exact tax is 0.998 and only the
// display layer rounds it to 1.00.
func TestCalculateDisplayRoundingScenario(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{line("1", "4.99", 2)}
	totals := Calculate(lines, decimal.RequireFromString("0.1"))

	if !totals.Subtotal.Equal(decimal.RequireFromString("9.98")) {
		t.Fatalf("expected subtotal 9.98, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.RequireFromString("0.998")) {
		t.Fatalf("expected exact tax 0.998, got %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.RequireFromString("10.978")) {
		t.Fatalf("expected exact total 10.978, got %s", totals.Total)
	}

	if got := Display(totals.Tax); got != "1.00" {
		t.Fatalf("expected displayed tax 1.00, got %s", got)
	}
	if got := Display(totals.Total); got != "10.98" {
		t.Fatalf("expected displayed total 10.98, got %s", got)
	}
}

func TestCalculateZeroTaxRate(t *testing.T) {
	t.Parallel()

	totals := Calculate([]cart.Line{line("1", "2.00", 3)}, decimal.Zero)
	if !totals.Tax.IsZero() {
		t.Fatalf("expected zero tax, got %s", totals.Tax)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Fatalf("expected total to equal subtotal, got %s vs %s", totals.Total, totals.Subtotal)
	}
}
