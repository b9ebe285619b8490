package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rustyeddy/rebalancer/broker"
)

const (
	// PaperURL is Alpaca's paper-trading environment.
	PaperURL = "https://paper-api.alpaca.markets"
	// LiveURL is Alpaca's live trading environment.
	LiveURL = "https://api.alpaca.markets"
)

// Client is a live Broker implementation over the Alpaca REST v2 API.
// Calls are synchronous; the only timeout is the HTTP client's own.
type Client struct {
	baseURL    string
	keyID      string
	secretKey  string
	httpClient *http.Client
}

// Compile-time interface check.
var _ broker.Broker = (*Client)(nil)

// NewClient creates an Alpaca API client. An empty baseURL selects the
// paper environment.
func NewClient(baseURL, keyID, secretKey string) *Client {
	if baseURL == "" {
		baseURL = PaperURL
	}
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Alpaca encodes numeric fields as strings.
type apiAccount struct {
	Cash string `json:"cash"`
}

type apiPosition struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
}

type apiOrder struct {
	ID string `json:"id"`
}

type orderPayload struct {
	Symbol      string `json:"symbol"`
	Qty         int    `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

func (c *Client) GetCash(ctx context.Context) (float64, error) {
	var acct apiAccount
	if err := c.get(ctx, "/v2/account", &acct); err != nil {
		return 0, err
	}

	cash, err := strconv.ParseFloat(acct.Cash, 64)
	if err != nil {
		return 0, fmt.Errorf("parse account cash %q: %w", acct.Cash, err)
	}
	return cash, nil
}

func (c *Client) GetPositions(ctx context.Context) (map[string]broker.Position, error) {
	var raw []apiPosition
	if err := c.get(ctx, "/v2/positions", &raw); err != nil {
		return nil, err
	}

	positions := make(map[string]broker.Position, len(raw))
	for _, p := range raw {
		qty, err := strconv.ParseFloat(p.Qty, 64)
		if err != nil {
			return nil, fmt.Errorf("parse qty for %s: %w", p.Symbol, err)
		}
		avg, err := strconv.ParseFloat(p.AvgEntryPrice, 64)
		if err != nil {
			return nil, fmt.Errorf("parse avg entry price for %s: %w", p.Symbol, err)
		}
		positions[p.Symbol] = broker.Position{
			Symbol:       p.Symbol,
			Quantity:     int(qty),
			AveragePrice: avg,
		}
	}
	return positions, nil
}

// PlaceOrder submits a day market order. The request's price hint is
// ignored; Alpaca fills at market.
func (c *Client) PlaceOrder(ctx context.Context, req broker.OrderRequest) (string, error) {
	if !req.Side.Valid() {
		return "", fmt.Errorf("alpaca: unsupported order side %q", req.Side)
	}
	if req.Quantity < 0 {
		return "", fmt.Errorf("alpaca: quantity must be non-negative, got %d", req.Quantity)
	}
	if req.Quantity == 0 {
		return broker.SentinelOrderID, nil
	}

	payload := orderPayload{
		Symbol:      req.Symbol,
		Qty:         req.Quantity,
		Side:        string(req.Side),
		Type:        "market",
		TimeInForce: "day",
	}

	var order apiOrder
	if err := c.post(ctx, "/v2/orders", payload, &order); err != nil {
		return "", err
	}
	return order.ID, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("APCA-API-KEY-ID", c.keyID)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alpaca API returned %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
