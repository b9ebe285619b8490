package market

import "time"

// Candle is a single OHLC bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// CandleSet is a time-ordered price history for one symbol.
type CandleSet []Candle

// Closes returns the close prices in bar order.
func (cs CandleSet) Closes() []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// LastClose returns the most recent close price, or 0 if the set is empty.
func (cs CandleSet) LastClose() float64 {
	if len(cs) == 0 {
		return 0
	}
	return cs[len(cs)-1].Close
}

// Tail returns the last n candles. If the set holds fewer than n, the
// whole set is returned.
func (cs CandleSet) Tail(n int) CandleSet {
	if n <= 0 {
		return nil
	}
	if len(cs) <= n {
		return cs
	}
	return cs[len(cs)-n:]
}
