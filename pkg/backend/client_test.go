package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.BackendConfig{
		URL:            server.URL,
		AnonKey:        "anon",
		Timeout:        2 * time.Second,
		ReadRetries:    2,
		ReadRetryDelay: time.Millisecond,
	}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, server
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient(context.Background(), config.BackendConfig{AnonKey: "anon"}, testLogger()); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := NewClient(context.Background(), config.BackendConfig{URL: "https://x"}, testLogger()); err == nil {
		t.Fatal("expected error without anon key")
	}
	if _, err := NewClient(context.Background(), config.BackendConfig{URL: "https://x", AnonKey: "anon"}, nil); err == nil {
		t.Fatal("expected error without logger")
	}
}

func TestListProductsSendsFiltersAndAuth(t *testing.T) {
	var gotQuery string
	var gotAPIKey string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"1","name":"Americano","price":4.99,"category":"coffee"}]`)
	}))

	products, err := client.ListProducts(context.Background(), ProductFilters{Category: "coffee", Query: "ameri"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Americano" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if !products[0].Price.Equal(decimal.RequireFromString("4.99")) {
		t.Fatalf("unexpected price: %s", products[0].Price)
	}
	if gotAPIKey != "anon" {
		t.Fatalf("expected apikey header, got %q", gotAPIKey)
	}

	parsed, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parsing query: %v", err)
	}
	if parsed.Get("category") != "eq.coffee" {
		t.Fatalf("unexpected category filter: %q", parsed.Get("category"))
	}
	if parsed.Get("name") != "ilike.*ameri*" {
		t.Fatalf("unexpected name filter: %q", parsed.Get("name"))
	}
	if parsed.Get("order") != "name.asc" {
		t.Fatalf("expected name ordering, got %q", parsed.Get("order"))
	}
}

func TestListProductsRetriesTransientFailures(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `[]`)
	}))

	if _, err := client.ListProducts(context.Background(), ProductFilters{}); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestListProductsDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"code":"PGRST100","message":"parse error"}`)
	}))

	_, err := client.ListProducts(context.Background(), ProductFilters{})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "PGRST100" {
		t.Fatalf("expected structured API error, got %v", err)
	}
}

func TestListProductsZeroRetryDelayDisablesRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		io.WriteString(w, `[{"id":"1","name":"Americano","price":4.99,"category":"coffee"}]`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.BackendConfig{
		URL:         server.URL,
		AnonKey:     "anon",
		Timeout:     2 * time.Second,
		ReadRetries: 3,
	}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	products, err := client.ListProducts(context.Background(), ProductFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestCreateOrderPostsSinglePayload(t *testing.T) {
	var gotPath string
	var payload struct {
		Order OrderRequest `json:"order"`
	}
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		io.WriteString(w, `{"id":"ord-1","status":"completed","subtotal":9.98,"tax":0.998,"total":10.978}`)
	}))

	record, err := client.CreateOrder(context.Background(), "user-token", OrderRequest{
		Subtotal:      decimal.RequireFromString("9.98"),
		Tax:           decimal.RequireFromString("0.998"),
		Total:         decimal.RequireFromString("10.978"),
		PaymentMethod: "cash",
		Status:        "completed",
		Items: []OrderLine{
			{ProductID: "1", Quantity: 2, UnitPrice: decimal.RequireFromString("4.99")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/rest/v1/rpc/create_order" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if record.ID != "ord-1" {
		t.Fatalf("unexpected order id %q", record.ID)
	}
	if len(payload.Order.Items) != 1 || payload.Order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected payload items: %+v", payload.Order.Items)
	}
}

func TestCreateOrderSurfacesMessageOnlyErrors(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"product Americano is out of stock"}`)
	}))

	_, err := client.CreateOrder(context.Background(), "", OrderRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected API error, got %v", err)
	}
	if apiErr.Message != "product Americano is out of stock" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Code != "" {
		t.Fatalf("expected empty code, got %q", apiErr.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))

	_, err := client.GetOrder(context.Background(), "", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSignInDecodesAuthErrors(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	}))

	_, err := client.SignInWithPassword(context.Background(), "a@b.c", "nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected API error, got %v", err)
	}
	if apiErr.Message != "Invalid login credentials" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}
