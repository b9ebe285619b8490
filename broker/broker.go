package broker

import "context"

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Valid reports whether s is a recognized order side.
func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// SentinelOrderID is returned for zero-quantity orders, which are
// recognized no-ops on every broker.
const SentinelOrderID = "ORD-0"

// Position is a snapshot of one symbol's holding. Brokers return fresh
// copies on every query; mutating a Position never affects account state.
type Position struct {
	Symbol       string
	Quantity     int
	AveragePrice float64
}

// MarketValue returns the position value at the given price.
func (p Position) MarketValue(price float64) float64 {
	return float64(p.Quantity) * price
}

// OrderRequest is a market order to be submitted to a broker.
//
// PriceHint carries the last known price for simulators that cannot
// synthesize a fill price on their own; live brokers may ignore it.
// Zero means "no hint".
type OrderRequest struct {
	Symbol    string
	Side      Side
	Quantity  int
	PriceHint float64
}

// Broker is the capability the rebalancer trades through, implemented by
// the paper engine and the live Alpaca client.
type Broker interface {
	GetCash(ctx context.Context) (float64, error)
	GetPositions(ctx context.Context) (map[string]Position, error)

	// PlaceOrder submits a market order and returns the broker's order id.
	// A zero-quantity request returns SentinelOrderID without any effect.
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
}
