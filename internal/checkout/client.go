// Package checkout is the client for the checkout-initiation endpoint.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const fallbackDetail = "Checkout request failed"

// ErrMissingCheckoutURL marks a 2xx response without a checkout URL.
var ErrMissingCheckoutURL = errors.New("Missing checkout URL")

type createRequest struct {
	ProductID string `json:"product_id"`
}

type createResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCheckout requests a hosted checkout URL for the product, authorized
// by the bearer credential. Non-2xx responses surface the body's detail
// message when one can be parsed, a generic fallback otherwise.
func (c *Client) CreateCheckout(ctx context.Context, accessToken, productID string) (string, error) {
	body, err := json.Marshal(createRequest{ProductID: productID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/checkout", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := fallbackDetail
		var payload errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Detail != "" {
			detail = payload.Detail
		}
		return "", errors.New(detail)
	}

	var payload createResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.CheckoutURL == "" {
		return "", ErrMissingCheckoutURL
	}
	return payload.CheckoutURL, nil
}
