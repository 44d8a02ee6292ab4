package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/printforge/commerce/internal/domain"
)

// Client opens payment intents on the external gateway over its REST API.
// It holds no state beyond the credentials and the HTTP client itself.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	name       string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		name:      "razorpay",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the gateway in payment rows.
func (c *Client) Name() string {
	return c.name
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createIntentResponse struct {
	ID string `json:"id"`
}

// CreateIntent opens a payment intent and returns the gateway's order id.
// The receipt is our order id, which makes duplicate intents for the same
// order detectable on the gateway side.
func (c *Client) CreateIntent(ctx context.Context, receipt string, amount domain.Money) (string, error) {
	body, err := json.Marshal(createIntentRequest{
		Amount:   amount.MinorUnits(),
		Currency: amount.Currency.String(),
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w: %w", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("gateway returned %d: %w", resp.StatusCode, domain.ErrGatewayUnavailable)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("gateway rejected intent with status %d", resp.StatusCode)
	}

	var intent createIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if intent.ID == "" {
		return "", fmt.Errorf("gateway response has no order id")
	}

	return intent.ID, nil
}
