package digistore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
)

const defaultAPIBaseURL = "https://www.digistore24.com/api/call"

// ErrNotConfigured is returned when the API key is missing. Callers on the
// sync path fail loudly; silently skipping a sync looks like success.
var ErrNotConfigured = errors.New("DIGISTORE_API_KEY is not configured")

// Purchase is one row from the platform's listPurchases call.
type Purchase struct {
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	BuyerEmail  string  `json:"buyer_email"`
	BuyerName   string  `json:"buyer_name"`
	AffiliateID string  `json:"affiliate_id"`
	Status      string  `json:"status"`
	PaymentDate string  `json:"payment_date"`
}

// Client talks to the Digistore24 REST API.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		APIKey:  strings.TrimSpace(env.GetEnv("DIGISTORE_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("DIGISTORE_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListPurchases fetches one page of purchases.
func (c *Client) ListPurchases(ctx context.Context, page, limit int) ([]Purchase, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	params, err := json.Marshal(map[string]int{"page": page, "limit": limit})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/listPurchases", bytes.NewReader(params))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-DS-API-KEY", c.APIKey)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("digistore listPurchases failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		Data []Purchase `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding listPurchases response: %w", err)
	}
	return out.Data, nil
}
