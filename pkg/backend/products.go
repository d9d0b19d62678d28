package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sethvargo/go-retry"

	"github.com/tillpointhq/tillpoint-backend/pkg/types"
)

// ProductFilters narrows the catalog listing. Both filters are optional and
// combine; results always come back sorted by name.
type ProductFilters struct {
	Category string
	Query    string
}

// ListProducts fetches catalog records from the hosted service, optionally
// filtered by category and case-insensitive name substring.
func (c *Client) ListProducts(ctx context.Context, filters ProductFilters) ([]types.Product, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "name.asc")
	if category := strings.TrimSpace(filters.Category); category != "" {
		query.Set("category", "eq."+category)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		query.Set("name", "ilike."+wildcardPattern(q))
	}

	var products []types.Product
	err := c.getWithRetry(ctx, restPath+"/products", query, "", &products)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// getWithRetry wraps idempotent reads in a bounded constant-backoff retry.
// Only transport failures and 5xx responses are retried; order writes never
// go through this path. A non-positive delay disables retries since the
// backoff constructor requires a positive interval.
func (c *Client) getWithRetry(ctx context.Context, path string, query url.Values, token string, out any) error {
	if c.readRetries <= 0 || c.readRetryDelay <= 0 {
		return c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, out)
	}

	backoff := retry.WithMaxRetries(uint64(c.readRetries), retry.NewConstant(c.readRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return err
		}
		return retry.RetryableError(err)
	})
}

// wildcardPattern escapes the caller's text so it matches as a literal
// substring inside the service's pattern syntax.
func wildcardPattern(q string) string {
	replacer := strings.NewReplacer("%", `\%`, "_", `\_`, "*", `\*`)
	return "*" + replacer.Replace(q) + "*"
}
