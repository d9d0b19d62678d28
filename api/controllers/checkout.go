package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

type submitCheckoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash card"`
	CustomerID    *string `json:"customer_id"`
}

// SubmitCheckout turns the session cart into an order. The cart survives
// every failure and empties only on confirmed success.
func SubmitCheckout(svc checkoutsvc.Service, registry *cart.Registry, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitCheckoutRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		record, err := svc.Submit(r.Context(), c, checkoutsvc.SubmitInput{
			PaymentMethod: payload.PaymentMethod,
			CustomerID:    payload.CustomerID,
			Token:         middleware.AccessTokenFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order": record,
			"cart":  newCartResponse(c, taxRate),
		})
	}
}

// CancelCheckout abandons the in-progress sale and empties the session cart.
func CancelCheckout(registry *cart.Registry, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.Clear()
		responses.WriteSuccess(w, newCartResponse(c, taxRate))
	}
}

// HoldOrder acknowledges the hold request without acting on it. Parked
// orders are not supported yet; the terminal surfaces the message as-is.
func HoldOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"supported": false,
			"message":   "hold orders are not available yet",
		})
	}
}
