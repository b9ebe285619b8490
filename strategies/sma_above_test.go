package strategies

import (
	"testing"
	"time"

	"github.com/rustyeddy/rebalancer/market"
	"github.com/stretchr/testify/assert"
)

func candlesFromCloses(closes []float64) market.CandleSet {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := make(market.CandleSet, len(closes))
	for i, c := range closes {
		cs[i] = market.Candle{Time: start.AddDate(0, 0, i), Close: c}
	}
	return cs
}

func rising(n int) market.CandleSet {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	return candlesFromCloses(closes)
}

func falling(n int) market.CandleSet {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = float64(n - i)
	}
	return candlesFromCloses(closes)
}

func TestSmaAboveSplitsWeightAcrossWinners(t *testing.T) {
	s := NewSmaAbove(5, 20)

	weights := s.ComputeTargetWeights(map[string]market.CandleSet{
		"UP1":  rising(30),
		"UP2":  rising(30),
		"DOWN": falling(30),
	})

	assert.InDelta(t, 0.5, weights["UP1"], 1e-9)
	assert.InDelta(t, 0.5, weights["UP2"], 1e-9)
	assert.Equal(t, 0.0, weights["DOWN"])
}

func TestSmaAboveAllBearishIsAllZero(t *testing.T) {
	s := NewSmaAbove(5, 20)

	weights := s.ComputeTargetWeights(map[string]market.CandleSet{
		"A": falling(30),
		"B": falling(30),
	})

	assert.Len(t, weights, 2)
	assert.Equal(t, 0.0, weights["A"])
	assert.Equal(t, 0.0, weights["B"])
}

func TestSmaAboveInsufficientHistory(t *testing.T) {
	s := NewSmaAbove(5, 20)

	weights := s.ComputeTargetWeights(map[string]market.CandleSet{
		"SHORT": rising(10), // fewer bars than the long window
	})

	assert.Equal(t, 0.0, weights["SHORT"])
}

func TestNewSmaAboveDefaults(t *testing.T) {
	s := NewSmaAbove(0, 0)
	assert.Equal(t, 50, s.ShortWindow)
	assert.Equal(t, 200, s.LongWindow)
}
