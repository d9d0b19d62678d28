package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

const maxQueryLength = 120

type catalogReader interface {
	ListProducts(ctx context.Context, filters backend.ProductFilters) ([]types.Product, error)
}

// Service exposes the catalog to the terminal. Reads go straight to the
// hosted service; nothing is cached locally.
type Service interface {
	List(ctx context.Context, filters Filters) ([]types.Product, error)
}

// Filters narrows a catalog listing.
type Filters struct {
	Category string
	Query    string
}

type service struct {
	catalog catalogReader
	logger  *logger.Logger
}

func NewService(catalog catalogReader, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{catalog: catalog, logger: logg}, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]types.Product, error) {
	query := strings.TrimSpace(filters.Query)
	if len(query) > maxQueryLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query too long")
	}

	items, err := s.catalog.ListProducts(ctx, backend.ProductFilters{
		Category: strings.TrimSpace(filters.Category),
		Query:    query,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load products")
	}
	if items == nil {
		items = []types.Product{}
	}
	return items, nil
}
