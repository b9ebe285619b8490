package strategies

import (
	"github.com/rustyeddy/rebalancer/indicators"
	"github.com/rustyeddy/rebalancer/market"
)

// SmaAbove is a long-only trend filter: a symbol is bullish when its
// last close sits above the short SMA and the short SMA sits above the
// long SMA. Investable equity is split equally across bullish symbols;
// everything else gets weight 0.
type SmaAbove struct {
	ShortWindow int
	LongWindow  int
}

// NewSmaAbove returns an SmaAbove with 50/200 defaults for
// non-positive windows.
func NewSmaAbove(short, long int) *SmaAbove {
	if short <= 0 {
		short = 50
	}
	if long <= 0 {
		long = 200
	}
	return &SmaAbove{ShortWindow: short, LongWindow: long}
}

func (s *SmaAbove) ComputeTargetWeights(history map[string]market.CandleSet) map[string]float64 {
	weights := make(map[string]float64, len(history))
	var winners []string

	for symbol, candles := range history {
		weights[symbol] = 0

		closes := candles.Closes()
		need := s.ShortWindow
		if s.LongWindow > need {
			need = s.LongWindow
		}
		if len(closes) < need {
			continue
		}

		smaShort, err := indicators.SMA(closes, s.ShortWindow)
		if err != nil {
			continue
		}
		smaLong, err := indicators.SMA(closes, s.LongWindow)
		if err != nil {
			continue
		}

		last := closes[len(closes)-1]
		if last > smaShort && smaShort > smaLong {
			winners = append(winners, symbol)
		}
	}

	if len(winners) == 0 {
		return weights
	}

	weight := 1.0 / float64(len(winners))
	for _, symbol := range winners {
		weights[symbol] = weight
	}
	return weights
}
