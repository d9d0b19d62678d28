package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	ordersvc "github.com/tillpointhq/tillpoint-backend/internal/orders"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// ListOrders serves the caller's recent orders, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListRecent(r.Context(), middleware.AccessTokenFromContext(r.Context()), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// GetOrder serves one order with its line items.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		detail, err := svc.Get(r.Context(), middleware.AccessTokenFromContext(r.Context()), chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
