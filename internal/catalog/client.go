// Package catalog is the single source of truth for product data. It
// fetches the catalog from the remote sheet-backed API and serves all
// reads from an in-memory snapshot with a TTL-bounded derived cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Catalog API actions understood by the remote endpoint.
const (
	actionGetAllProducts        = "getAllProducts"
	actionGetProductsByCategory = "getProductsByCategory"
	actionGetProductByID        = "getProductById"
	actionGetFeaturedProducts   = "getFeaturedProducts"
	actionGetCategories         = "getCategories"
)

// APIError is returned when the endpoint answered but reported
// success:false. It separates "the API rejected the request" from
// transport or parse failures.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "catalog API request failed"
	}
	return "catalog API error: " + e.Message
}

// envelope is the response wrapper used by every catalog API action.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
	Count   int             `json:"count,omitempty"`
}

// Client talks to the remote catalog API. All requests are GETs
// parameterized by an action query value.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a catalog API client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// fetch performs one catalog API call and unmarshals the envelope data
// into out. Non-2xx responses and success:false envelopes are failures.
func (c *Client) fetch(ctx context.Context, action string, params map[string]string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog API URL: %w", err)
	}

	q := u.Query()
	q.Set("action", action)
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !env.Success {
		return &APIError{Message: env.Error}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}

	return nil
}
