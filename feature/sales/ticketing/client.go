package ticketing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SaleItem is one ticket type as reported by the ticketing API.
type SaleItem struct {
	ItemID     int    `json:"itemId"`
	Name       string `json:"name"`
	TotalStock int    `json:"totalStock"`
}

// Client fetches ticket-type inventory from the ticketing API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a ticketing API client with a fixed request timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// SaleItems returns the ticket types of one event. A non-2xx response is an
// error; a body without a saleItems key yields an empty slice.
func (c *Client) SaleItems(ctx context.Context, eventID int) ([]SaleItem, error) {
	url := fmt.Sprintf("%s%d", c.baseURL, eventID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ticketing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketing api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ticketing api returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		SaleItems []SaleItem `json:"saleItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ticketing response: %w", err)
	}

	return payload.SaleItems, nil
}
