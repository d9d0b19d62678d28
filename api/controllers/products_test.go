package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	productsvc "github.com/tillpointhq/tillpoint-backend/internal/products"
	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

type productListStub struct {
	gotFilters productsvc.Filters
	items      []types.Product
	err        error
}

func (s *productListStub) List(ctx context.Context, filters productsvc.Filters) ([]types.Product, error) {
	s.gotFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestListProductsForwardsFilters(t *testing.T) {
	stub := &productListStub{items: []types.Product{
		{ID: "p1", Name: "Americano", Price: decimal.RequireFromString("3.50"), Category: "coffee"},
	}}
	handler := ListProducts(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?category=coffee&q=amer", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.gotFilters.Category != "coffee" || stub.gotFilters.Query != "amer" {
		t.Fatalf("unexpected filters %+v", stub.gotFilters)
	}

	var envelope struct {
		Data []types.Product `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Americano" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestListProductsWithoutService(t *testing.T) {
	handler := ListProducts(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
