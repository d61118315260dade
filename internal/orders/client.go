// Package orders builds checkout payloads from the session cart and
// submits them to the external order-log endpoint.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freshkart/storefront-api/internal/models"
)

// submitResponse is the envelope returned by the order endpoint.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitClient posts order payloads to the external submission
// endpoint. The endpoint appends each order to a spreadsheet-backed
// log; that side is entirely out of this service's hands.
type SubmitClient struct {
	httpClient *http.Client
	submitURL  string
}

// SubmitOption configures a SubmitClient.
type SubmitOption func(*SubmitClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) SubmitOption {
	return func(c *SubmitClient) { c.httpClient = h }
}

// NewSubmitClient creates a client for the given submission URL.
func NewSubmitClient(submitURL string, opts ...SubmitOption) *SubmitClient {
	c := &SubmitClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		submitURL:  submitURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit posts the payload. Non-2xx statuses and success:false
// responses are failures; the caller keeps the cart intact so the
// customer can retry.
func (c *SubmitClient) Submit(ctx context.Context, payload models.OrderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("order submission failed: %w", err)
	}
	defer resp.Body.Close()

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("order endpoint returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to parse order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.Success {
		if result.Message != "" {
			return fmt.Errorf("order rejected: %s", result.Message)
		}
		return fmt.Errorf("order endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
