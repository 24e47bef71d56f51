// Package terminal provides a Go SDK for interacting with the
// tradeterm-server API.
package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a running tradeterm-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new tradeterm API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Status mirrors GET /api/status.
type Status struct {
	Engine    string `json:"engine"`
	Live      bool   `json:"live"`
	Orders    int    `json:"orders"`
	Trades    int    `json:"trades"`
	Positions int    `json:"positions"`
	Assets    int    `json:"assets"`
}

// OrderRequest is the order submission body for SubmitOrder. Coded fields
// (side, offset, price type) use the engine's numeric codes.
type OrderRequest struct {
	AccountID string `json:"account_id"`
	CallerID  string `json:"caller_id,omitempty"`

	InstrumentID   string  `json:"instrument_id"`
	ExchangeID     string  `json:"exchange_id"`
	InstrumentType uint8   `json:"instrument_type"`
	LimitPrice     float64 `json:"limit_price"`
	Volume         int64   `json:"volume"`
	Side           uint8   `json:"side"`
	Offset         uint8   `json:"offset"`
	HedgeFlag      uint8   `json:"hedge_flag"`
	PriceType      uint8   `json:"price_type"`
	IsSwap         bool    `json:"is_swap"`

	IsBlock      bool   `json:"is_block,omitempty"`
	OpponentSeat int32  `json:"opponent_seat,omitempty"`
	MatchNumber  uint64 `json:"match_number,string,omitempty"`
}

// OrderReceipt is the server's acknowledgement of a submission.
type OrderReceipt struct {
	OrderID string `json:"order_id"`
	UIDKey  string `json:"uid_key"`
}

// HistoryDataset is the response of GetHistory. Record maps carry the raw
// fields plus the resolved display annotations.
type HistoryDataset struct {
	Orders    []map[string]any `json:"orders"`
	Trades    []map[string]any `json:"trades"`
	Positions []map[string]any `json:"positions"`
	Assets    []map[string]any `json:"assets"`
}

// GetStatus retrieves the server and engine status.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.get(ctx, "/api/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrders retrieves the session's resolved orders.
func (c *Client) GetOrders(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrades retrieves the session's resolved trades.
func (c *Client) GetTrades(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/trades", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPositions retrieves the current resolved position snapshots.
func (c *Client) GetPositions(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/positions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAssets retrieves the current resolved asset snapshots.
func (c *Client) GetAssets(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/assets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHistory retrieves the merged dataset for a date ("2006-01-02").
// naturalDate selects the plain calendar-day window instead of the
// trading-day merge.
func (c *Client) GetHistory(ctx context.Context, date string, naturalDate bool) (*HistoryDataset, error) {
	path := "/api/history/" + url.PathEscape(date)
	if naturalDate {
		path += "?mode=natural"
	}
	var out HistoryDataset
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitOrder submits a new order and returns the server's receipt.
func (c *Client) SubmitOrder(ctx context.Context, req *OrderRequest) (*OrderReceipt, error) {
	var out OrderReceipt
	if err := c.send(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancels the order with the given id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.send(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(orderID), nil, nil)
}

// CancelAllOrders cancels every open order and returns how many
// cancellations were issued.
func (c *Client) CancelAllOrders(ctx context.Context) (int, error) {
	var out struct {
		Cancelled int `json:"cancelled"`
	}
	if err := c.send(ctx, http.MethodDelete, "/api/orders", nil, &out); err != nil {
		return 0, err
	}
	return out.Cancelled, nil
}

// Subscribe asks the named market-data source to subscribe to an instrument.
func (c *Client) Subscribe(ctx context.Context, sourceID, exchangeID, instrumentID string) error {
	body := map[string]string{
		"source_id":     sourceID,
		"exchange_id":   exchangeID,
		"instrument_id": instrumentID,
	}
	return c.send(ctx, http.MethodPost, "/api/subscriptions", body, nil)
}

// --- plumbing ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
