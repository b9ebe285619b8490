package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/rebalancer/market"
)

// DefaultBaseURL is Yahoo Finance's public chart endpoint host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches price history and last prices from the Yahoo Finance
// v8 chart API. Symbols are requested one at a time, sequentially.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time interface check.
var _ market.DataProvider = (*Client)(nil)

func NewClient() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// GetHistory fetches OHLC history for each symbol. period and interval
// use Yahoo range syntax, e.g. "210d" and "1d". Bars with a null close
// are dropped.
func (c *Client) GetHistory(ctx context.Context, symbols []string, period, interval string) (map[string]market.CandleSet, error) {
	result := make(map[string]market.CandleSet, len(symbols))
	for _, symbol := range symbols {
		res, err := c.fetchChart(ctx, symbol, period, interval)
		if err != nil {
			return nil, fmt.Errorf("history for %s: %w", symbol, err)
		}
		result[symbol] = candlesFrom(res)
	}
	return result, nil
}

// GetLastPrices returns the regular-market price per symbol. Symbols the
// quote metadata omits fall back to the most recent daily close; symbols
// with no price at all are left out of the map.
func (c *Client) GetLastPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(symbols))
	var missing []string

	for _, symbol := range symbols {
		res, err := c.fetchChart(ctx, symbol, "1d", "1d")
		if err != nil {
			return nil, fmt.Errorf("last price for %s: %w", symbol, err)
		}
		if p := res.Meta.RegularMarketPrice; p > 0 {
			prices[symbol] = p
		} else {
			missing = append(missing, symbol)
		}
	}

	if len(missing) > 0 {
		hist, err := c.GetHistory(ctx, missing, "5d", "1d")
		if err != nil {
			return nil, err
		}
		for symbol, candles := range hist {
			if p := candles.LastClose(); p > 0 {
				prices[symbol] = p
			}
		}
	}

	return prices, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol, rng, interval string) (chartResult, error) {
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return chartResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rebalancer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return chartResult{}, fmt.Errorf("chart API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return chartResult{}, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return chartResult{}, fmt.Errorf("chart API error: %s (%s)",
			parsed.Chart.Error.Description, parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 {
		return chartResult{}, fmt.Errorf("empty chart result")
	}
	return parsed.Chart.Result[0], nil
}

func candlesFrom(res chartResult) market.CandleSet {
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	quote := res.Indicators.Quote[0]

	candles := make(market.CandleSet, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		c := market.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			c.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			c.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			c.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			c.Volume = *quote.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}
