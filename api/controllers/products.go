package controllers

import (
	"net/http"

	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	productsvc "github.com/tillpointhq/tillpoint-backend/internal/products"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// ListProducts serves the catalog with optional category and name filters.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters := productsvc.Filters{
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 80),
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}

		items, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
