package market

import "context"

// DataProvider supplies price history and last-trade prices for symbols.
//
// GetLastPrices may omit symbols for which no price is available; callers
// must treat a missing entry as "price unknown", not zero.
type DataProvider interface {
	GetHistory(ctx context.Context, symbols []string, period, interval string) (map[string]CandleSet, error)
	GetLastPrices(ctx context.Context, symbols []string) (map[string]float64, error)
}
