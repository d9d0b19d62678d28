package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one cart line flattened into the order-creation payload.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// OrderRequest is the full order the hosted service persists atomically:
// header fields plus every line item in a single call.
type OrderRequest struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	Status        string          `json:"status"`
	Items         []OrderLine     `json:"items"`
}

// OrderRecord is the persisted order as the hosted service reports it.
type OrderRecord struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItemDetail is a persisted line item joined with its product summary.
type OrderItemDetail struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Product  ProductSummary  `json:"products"`
}

// ProductSummary is the slice of the catalog record embedded in order detail
// reads.
type ProductSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// OrderDetail is an order header with its items.
type OrderDetail struct {
	OrderRecord
	Items []OrderItemDetail `json:"order_items"`
}

// CreateOrder submits one order-creation call. The hosted service persists
// the header and all items together; the call either fully succeeds or fully
// fails. Never retried here.
func (c *Client) CreateOrder(ctx context.Context, token string, order OrderRequest) (*OrderRecord, error) {
	var record OrderRecord
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   restPath + "/rpc/create_order",
		token:  token,
		body:   map[string]any{"order": order},
	}, &record)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return &record, nil
}

// ListOrders returns persisted orders, newest first.
func (c *Client) ListOrders(ctx context.Context, token string, limit int) ([]OrderRecord, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var records []OrderRecord
	if err := c.getWithRetry(ctx, restPath+"/orders", query, token, &records); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return records, nil
}

// GetOrder fetches one order with its items and product summaries embedded.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*OrderDetail, error) {
	query := url.Values{}
	query.Set("select", "*,order_items(id,quantity,price,products(id,name,image_url))")
	query.Set("id", "eq."+orderID)
	query.Set("limit", "1")

	var details []OrderDetail
	if err := c.getWithRetry(ctx, restPath+"/orders", query, token, &details); err != nil {
		return nil, fmt.Errorf("fetching order %s: %w", orderID, err)
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}
