package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

// Client talks to the storefront API the way a customer-facing client does.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Menu returns the catalog with authoritative prices.
func (c *Client) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	envelope := global.APIResponse{Data: &items}
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &envelope); err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem looks a menu item up by name, ignoring case.
func (c *Client) FindItem(ctx context.Context, name string) (*models.MenuItem, error) {
	items, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, strings.TrimSpace(name)) {
			return &items[i], nil
		}
	}
	return nil, global.NotFound(fmt.Sprintf("Menu item %q not found", name))
}

func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return global.Upstream("Storefront unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return global.Upstream("Invalid storefront response", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var envelope global.APIResponse
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	message := envelope.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return global.NotFound(message)
	case resp.StatusCode < 500:
		return global.Validation(message, envelope.Errors...)
	default:
		return global.Upstream(message, fmt.Errorf("status %d", resp.StatusCode))
	}
}
