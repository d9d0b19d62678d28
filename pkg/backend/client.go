package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errAnonKeyRequired = errors.New("backend anon key is required")
	errLoggerRequired  = errors.New("backend logger is required")

	// ErrNotFound is returned when the hosted service has no matching row.
	ErrNotFound = errors.New("backend: not found")
)

const (
	restPath = "/rest/v1"
	authPath = "/auth/v1"
)

// Client talks to the hosted database/auth service that owns all durable
// state. Every request carries the project key; user-scoped calls add the
// caller's bearer token on top.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	anonKey        string
	serviceKey     string
	readRetries    int
	readRetryDelay time.Duration
	logger         *logger.Logger
}

// NewClient validates the configuration and builds the hosted-service client.
func NewClient(ctx context.Context, cfg config.BackendConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if anonKey == "" {
		return nil, errAnonKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		anonKey:        anonKey,
		serviceKey:     strings.TrimSpace(cfg.ServiceKey),
		readRetries:    cfg.ReadRetries,
		readRetryDelay: cfg.ReadRetryDelay,
		logger:         logg,
	}

	logg.Info(ctx, "backend client initialized")
	return c, nil
}

// Ping touches the hosted auth provider's health endpoint so readiness
// probes can tell whether the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: authPath + "/health"}, nil)
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do performs one round-trip against the hosted service. Non-2xx responses
// decode into *APIError; transport failures surface as wrapped errors.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	token := req.token
	if token == "" {
		token = c.serviceKey
	}
	if token == "" {
		token = c.anonKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("calling hosted service: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
