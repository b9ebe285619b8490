// Package portfolio sizes the orders needed to move an account toward a
// set of target weights.
package portfolio

import (
	"math"
	"sort"

	"github.com/rustyeddy/rebalancer/broker"
)

// DefaultMinCashReserve keeps 1% of equity out of the market.
const DefaultMinCashReserve = 0.01

// ComputeRebalanceOrders converts target weights plus the current account
// snapshot into a cash-prioritized order list. It is pure and never
// fails; an empty slice means nothing to do.
//
// Rules:
//   - equity counts only positions with a known last price
//   - minCashReserve (fraction of equity) is held back before sizing
//   - each weight is clamped to [0,1] independently
//   - symbols without a positive last price are skipped
//   - deltas worth less than one share are skipped
//   - share counts floor toward negative infinity, so sell sizing rounds
//     toward the larger sale
//   - sells come before buys, preserving symbol order within each side
//   - held symbols absent from targetWeights are never touched
func ComputeRebalanceOrders(
	targetWeights map[string]float64,
	currentPositions map[string]broker.Position,
	cash float64,
	lastPrices map[string]float64,
	minCashReserve float64,
) []broker.OrderRequest {
	equity := cash
	for symbol, pos := range currentPositions {
		if price, ok := lastPrices[symbol]; ok {
			equity += pos.MarketValue(price)
		}
	}
	if equity <= 0 {
		return nil
	}

	targetCash := equity * minCashReserve
	investable := math.Max(0, equity-targetCash)

	symbols := make([]string, 0, len(targetWeights))
	for symbol := range targetWeights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var sells, buys []broker.OrderRequest
	for _, symbol := range symbols {
		price, ok := lastPrices[symbol]
		if !ok || price <= 0 {
			continue
		}

		weight := math.Max(0, math.Min(1, targetWeights[symbol]))
		targetDollar := investable * weight
		currentDollar := currentPositions[symbol].MarketValue(price)

		delta := targetDollar - currentDollar
		if math.Abs(delta) < price {
			continue
		}

		qty := int(math.Floor(delta / price))
		switch {
		case qty > 0:
			buys = append(buys, broker.OrderRequest{Symbol: symbol, Side: broker.Buy, Quantity: qty})
		case qty < 0:
			sells = append(sells, broker.OrderRequest{Symbol: symbol, Side: broker.Sell, Quantity: -qty})
		}
	}

	return append(sells, buys...)
}
