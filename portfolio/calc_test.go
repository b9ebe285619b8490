package portfolio

import (
	"testing"

	"github.com/rustyeddy/rebalancer/broker"
	"github.com/stretchr/testify/assert"
)

func TestAllInSingleSymbol(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0},
		map[string]broker.Position{},
		10000,
		map[string]float64{"AAA": 100},
		0.01,
	)

	// investable = 10000 * 0.99 = 9900 -> floor(9900/100) = 99 shares
	assert.Equal(t, []broker.OrderRequest{
		{Symbol: "AAA", Side: broker.Buy, Quantity: 99},
	}, orders)
}

func TestZeroWeightLiquidates(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 0.0},
		map[string]broker.Position{
			"AAA": {Symbol: "AAA", Quantity: 50, AveragePrice: 90},
		},
		0,
		map[string]float64{"AAA": 100},
		0.01,
	)

	assert.Equal(t, []broker.OrderRequest{
		{Symbol: "AAA", Side: broker.Sell, Quantity: 50},
	}, orders)
}

func TestSubShareDeltaProducesNoOrder(t *testing.T) {
	// Held value 10000, target ~9900: delta -100 is less than one share
	// at price 200.
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0},
		map[string]broker.Position{
			"AAA": {Symbol: "AAA", Quantity: 50, AveragePrice: 190},
		},
		0,
		map[string]float64{"AAA": 200},
		0.01,
	)
	assert.Empty(t, orders)
}

func TestNonPositiveEquity(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0},
		map[string]broker.Position{},
		0,
		map[string]float64{"AAA": 100},
		0.01,
	)
	assert.Empty(t, orders)
}

func TestUntargetedHoldingLeftAlone(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0},
		map[string]broker.Position{
			"ZZZ": {Symbol: "ZZZ", Quantity: 10, AveragePrice: 50},
		},
		1000,
		map[string]float64{"AAA": 10, "ZZZ": 50},
		0,
	)

	// ZZZ has no target weight: never sold. Equity includes it though.
	assert.Len(t, orders, 1)
	assert.Equal(t, "AAA", orders[0].Symbol)
	assert.Equal(t, broker.Buy, orders[0].Side)
	// equity = 1000 + 500, weight 1.0 -> 150 shares at 10
	assert.Equal(t, 150, orders[0].Quantity)
}

func TestUnpricedSymbolSkipped(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 0.5, "BBB": 0.5},
		map[string]broker.Position{},
		1000,
		map[string]float64{"AAA": 10},
		0,
	)

	assert.Len(t, orders, 1)
	assert.Equal(t, "AAA", orders[0].Symbol)
}

func TestWeightClampedToOne(t *testing.T) {
	clamped := ComputeRebalanceOrders(
		map[string]float64{"AAA": 2.5},
		map[string]broker.Position{},
		1000,
		map[string]float64{"AAA": 10},
		0,
	)
	full := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0},
		map[string]broker.Position{},
		1000,
		map[string]float64{"AAA": 10},
		0,
	)
	assert.Equal(t, full, clamped)
}

func TestNegativeWeightClampedToZero(t *testing.T) {
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": -0.5},
		map[string]broker.Position{
			"AAA": {Symbol: "AAA", Quantity: 10, AveragePrice: 10},
		},
		0,
		map[string]float64{"AAA": 10},
		0,
	)
	// Clamped to 0: full liquidation, same as an explicit zero weight.
	assert.Equal(t, []broker.OrderRequest{
		{Symbol: "AAA", Side: broker.Sell, Quantity: 10},
	}, orders)
}

func TestSellsComeBeforeBuys(t *testing.T) {
	// ZZZ sorts after AAA, but its sell must still be emitted first so
	// the freed cash can fund the AAA buy downstream.
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 1.0, "ZZZ": 0.0},
		map[string]broker.Position{
			"ZZZ": {Symbol: "ZZZ", Quantity: 10, AveragePrice: 100},
		},
		0,
		map[string]float64{"AAA": 10, "ZZZ": 100},
		0,
	)

	assert.Len(t, orders, 2)
	assert.Equal(t, broker.Sell, orders[0].Side)
	assert.Equal(t, "ZZZ", orders[0].Symbol)
	assert.Equal(t, 10, orders[0].Quantity)
	assert.Equal(t, broker.Buy, orders[1].Side)
	assert.Equal(t, "AAA", orders[1].Symbol)
	// equity = 1000, all investable -> 100 shares at 10
	assert.Equal(t, 100, orders[1].Quantity)
}

func TestSellSizingFloorsTowardNegativeInfinity(t *testing.T) {
	// equity = 30, target dollar = 23, current = 30: delta = -7 at
	// price 3. floor(-7/3) = -3, so we sell 3 shares, not trunc's 2.
	orders := ComputeRebalanceOrders(
		map[string]float64{"AAA": 23.0 / 30.0},
		map[string]broker.Position{
			"AAA": {Symbol: "AAA", Quantity: 10, AveragePrice: 3},
		},
		0,
		map[string]float64{"AAA": 3},
		0,
	)

	assert.Equal(t, []broker.OrderRequest{
		{Symbol: "AAA", Side: broker.Sell, Quantity: 3},
	}, orders)
}
