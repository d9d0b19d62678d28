package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/internal/pricing"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/metrics"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

type cartLineResponse struct {
	Product   types.Product `json:"product"`
	Quantity  int           `json:"quantity"`
	LineTotal string        `json:"line_total"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  string             `json:"subtotal"`
	Tax       string             `json:"tax"`
	Total     string             `json:"total"`
	TaxRate   string             `json:"tax_rate"`
}

type addCartItemRequest struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageURL *string         `json:"image_url"`
	Stock    *int            `json:"stock"`
}

type updateCartItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func newCartResponse(c *cart.Cart, taxRate decimal.Decimal) cartResponse {
	lines := c.Lines()
	totals := pricing.Calculate(lines, taxRate)

	resp := cartResponse{
		Lines:    make([]cartLineResponse, 0, len(lines)),
		Subtotal: pricing.Display(totals.Subtotal),
		Tax:      pricing.Display(totals.Tax),
		Total:    pricing.Display(totals.Total),
		TaxRate:  taxRate.String(),
	}
	for _, line := range lines {
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resp.Lines = append(resp.Lines, cartLineResponse{
			Product:   line.Product,
			Quantity:  line.Quantity,
			LineTotal: pricing.Display(lineTotal),
		})
		resp.ItemCount += line.Quantity
	}
	return resp
}

func sessionCart(r *http.Request, registry *cart.Registry) (*cart.Cart, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return registry.Get(sessionID), nil
}

// GetCart renders the session's current cart with computed totals.
func GetCart(registry *cart.Registry, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c, taxRate))
	}
}

// AddCartItem appends the posted product to the session cart, collapsing
// repeat additions of the same product into a higher quantity.
func AddCartItem(registry *cart.Registry, taxRate decimal.Decimal, apiMetrics *metrics.APIMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}

		c.AddItem(types.Product{
			ID:       payload.ID,
			Name:     payload.Name,
			Price:    payload.Price,
			Category: payload.Category,
			ImageURL: payload.ImageURL,
			Stock:    payload.Stock,
		})
		apiMetrics.IncCartMutation("add")

		responses.WriteSuccess(w, newCartResponse(c, taxRate))
	}
}

// UpdateCartItem adjusts a line's quantity by the posted delta. Driving the
// quantity to zero or below removes the line; an unknown product id leaves
// the cart untouched.
func UpdateCartItem(registry *cart.Registry, taxRate decimal.Decimal, apiMetrics *metrics.APIMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.UpdateQuantity(productID, payload.Delta)
		apiMetrics.IncCartMutation("update")

		responses.WriteSuccess(w, newCartResponse(c, taxRate))
	}
}

// ClearCart empties the session cart.
func ClearCart(registry *cart.Registry, taxRate decimal.Decimal, apiMetrics *metrics.APIMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.Clear()
		apiMetrics.IncCartMutation("clear")

		responses.WriteSuccess(w, newCartResponse(c, taxRate))
	}
}
