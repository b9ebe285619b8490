package strategies

import "github.com/rustyeddy/rebalancer/market"

// NoopStrategy targets zero weight everywhere, which liquidates any
// targeted holdings and otherwise does nothing.
type NoopStrategy struct{}

func (NoopStrategy) ComputeTargetWeights(history map[string]market.CandleSet) map[string]float64 {
	weights := make(map[string]float64, len(history))
	for symbol := range history {
		weights[symbol] = 0
	}
	return weights
}
