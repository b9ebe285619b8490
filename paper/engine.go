package paper

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/rebalancer/broker"
)

var (
	ErrInvalidSide          = errors.New("paper: unsupported order side")
	ErrInvalidQuantity      = errors.New("paper: quantity must be non-negative")
	ErrNoFillPrice          = errors.New("paper: missing or invalid price for simulated fill")
	ErrInsufficientCash     = errors.New("paper: insufficient cash")
	ErrInsufficientPosition = errors.New("paper: insufficient position")
)

// cashEpsilon absorbs floating rounding in the buy-side cash check.
const cashEpsilon = 1e-6

// Compile-time interface check.
var _ broker.Broker = (*Engine)(nil)

// Engine simulates a brokerage account with cash and integer-share
// positions using average-cost accounting. Every successful mutation is
// persisted to the state file before the call returns.
//
// The engine is single-writer: exactly one process owns a state file at
// a time. Concurrent use of the same file is undefined.
type Engine struct {
	statePath string
	state     accountState
}

// NewEngine opens the account persisted at statePath, creating an empty
// account (zero cash, no positions, order id 1) if none exists.
func NewEngine(statePath string) (*Engine, error) {
	st, err := load(statePath)
	if err != nil {
		return nil, err
	}
	return &Engine{statePath: statePath, state: st}, nil
}

// SeedCash sets the starting cash, but only on a truly fresh account
// (zero cash and zero equity). Calling it on a funded account is a
// no-op, which makes repeated runs with --budget safe.
func (e *Engine) SeedCash(amount float64) error {
	if e.state.Cash != 0 || e.TotalEquity(nil) != 0 {
		return nil
	}
	e.state.Cash = amount
	return save(e.statePath, e.state)
}

// TotalEquity returns cash plus the value of each held position whose
// symbol has an entry in priceBySymbol. Positions with no known price
// contribute nothing.
func (e *Engine) TotalEquity(priceBySymbol map[string]float64) float64 {
	equity := e.state.Cash
	for symbol, pos := range e.state.Positions {
		if price, ok := priceBySymbol[symbol]; ok {
			equity += float64(pos.Quantity) * price
		}
	}
	return equity
}

func (e *Engine) GetCash(ctx context.Context) (float64, error) {
	return e.state.Cash, nil
}

// GetPositions returns independent copies of the current holdings.
func (e *Engine) GetPositions(ctx context.Context) (map[string]broker.Position, error) {
	out := make(map[string]broker.Position, len(e.state.Positions))
	for symbol, pos := range e.state.Positions {
		out[symbol] = broker.Position{
			Symbol:       symbol,
			Quantity:     pos.Quantity,
			AveragePrice: pos.AveragePrice,
		}
	}
	return out, nil
}

// PlaceOrder applies a simulated market fill at the request's price hint.
//
// Validation happens before any mutation, so a failed order leaves both
// the in-memory account and the state file untouched. On success the
// order is assigned the next sequential id and the full state is
// persisted before the id is returned.
func (e *Engine) PlaceOrder(ctx context.Context, req broker.OrderRequest) (string, error) {
	if !req.Side.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, req.Side)
	}
	if req.Quantity < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidQuantity, req.Quantity)
	}
	if req.Quantity == 0 {
		return broker.SentinelOrderID, nil
	}
	if req.PriceHint <= 0 {
		return "", fmt.Errorf("%w: %s", ErrNoFillPrice, req.Symbol)
	}

	cash := e.state.Cash
	pos := e.state.Positions[req.Symbol]
	quantity := float64(req.Quantity)

	switch req.Side {
	case broker.Buy:
		cost := quantity * req.PriceHint
		if cost > cash+cashEpsilon {
			return "", fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, cash)
		}
		newQty := pos.Quantity + req.Quantity
		newAvg := 0.0
		if newQty > 0 {
			newAvg = (float64(pos.Quantity)*pos.AveragePrice + cost) / float64(newQty)
		}
		pos.Quantity = newQty
		pos.AveragePrice = newAvg
		cash -= cost

	case broker.Sell:
		if req.Quantity > pos.Quantity {
			return "", fmt.Errorf("%w: sell %d, hold %d %s",
				ErrInsufficientPosition, req.Quantity, pos.Quantity, req.Symbol)
		}
		pos.Quantity -= req.Quantity
		if pos.Quantity == 0 {
			// Average cost basis is held constant on partial sells and
			// only resets when the position is fully closed.
			pos.AveragePrice = 0
		}
		cash += quantity * req.PriceHint
	}

	e.state.Positions[req.Symbol] = pos
	e.state.Cash = cash

	orderID := fmt.Sprintf("ORD-%d", e.state.NextOrderID)
	e.state.NextOrderID++

	if err := save(e.statePath, e.state); err != nil {
		return "", err
	}
	return orderID, nil
}
