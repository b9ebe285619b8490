package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/rebalancer/market"
)

// Strategy converts price history into target portfolio weights.
//
// Weights are in [0,1] per symbol; their sum may be below 1, with the
// remainder held as cash. Every symbol present in the history gets an
// entry, including zero-weight ones.
type Strategy interface {
	ComputeTargetWeights(history map[string]market.CandleSet) map[string]float64
}

// Params carries the tunables shared by the built-in strategies.
type Params struct {
	ShortWindow int
	LongWindow  int
}

// ByName builds a registered strategy from its CLI name.
func ByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sma-above", "sma":
		return NewSmaAbove(p.ShortWindow, p.LongWindow), nil

	case "noop", "none":
		return NoopStrategy{}, nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: sma-above, noop)", name)
	}
}
