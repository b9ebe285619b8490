// Package rebalance wires the data provider, strategy, calculator and
// broker into a single-cycle rebalance pass.
package rebalance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/rebalancer/broker"
	"github.com/rustyeddy/rebalancer/internal/id"
	"github.com/rustyeddy/rebalancer/journal"
	"github.com/rustyeddy/rebalancer/market"
	"github.com/rustyeddy/rebalancer/portfolio"
	"github.com/rustyeddy/rebalancer/strategies"
)

// Runner holds the collaborators for one rebalance pass. All calls are
// sequential; nothing here is safe for concurrent use.
type Runner struct {
	Broker   broker.Broker
	Data     market.DataProvider
	Strategy strategies.Strategy
	Journal  journal.Journal
	Log      zerolog.Logger
}

// Params are the per-pass inputs.
type Params struct {
	Symbols        []string
	Warmup         int     // history bars fed to the strategy
	MinCashReserve float64 // fraction of equity kept as cash
}

// Summary reports what a pass did.
type Summary struct {
	RunID  string
	Placed int
	Failed int
	Equity float64
}

// Run executes one rebalance pass: fetch history, compute target
// weights, size orders against the current account, submit them
// sequentially, and journal the results.
//
// A failed order aborts only that order; the loop moves on to the next
// one. Already-applied orders are not rolled back.
func (r *Runner) Run(ctx context.Context, p Params) (Summary, error) {
	if len(p.Symbols) == 0 {
		return Summary{}, fmt.Errorf("no symbols given")
	}

	runID := id.New()
	log := r.Log.With().Str("run_id", runID).Logger()
	summary := Summary{RunID: runID}

	period := fmt.Sprintf("%dd", p.Warmup+10)
	log.Info().Strs("symbols", p.Symbols).Str("period", period).Msg("fetching price history")
	history, err := r.Data.GetHistory(ctx, p.Symbols, period, "1d")
	if err != nil {
		return summary, fmt.Errorf("fetch history: %w", err)
	}
	for symbol, candles := range history {
		history[symbol] = candles.Tail(p.Warmup)
	}

	log.Info().Msg("computing target weights")
	targetWeights := r.Strategy.ComputeTargetWeights(history)

	positions, err := r.Broker.GetPositions(ctx)
	if err != nil {
		return summary, fmt.Errorf("get positions: %w", err)
	}
	cash, err := r.Broker.GetCash(ctx)
	if err != nil {
		return summary, fmt.Errorf("get cash: %w", err)
	}

	lastPrices, err := r.Data.GetLastPrices(ctx, p.Symbols)
	if err != nil {
		return summary, fmt.Errorf("get last prices: %w", err)
	}

	orders := portfolio.ComputeRebalanceOrders(targetWeights, positions, cash, lastPrices, p.MinCashReserve)
	if len(orders) == 0 {
		log.Info().Msg("no orders to execute; portfolio already at target weights")
		summary.Equity = r.equityAfter(ctx, cash)
		return summary, r.recordEquity(ctx, runID, summary.Equity)
	}

	log.Info().Int("count", len(orders)).Msg("submitting orders")
	for _, order := range orders {
		order.PriceHint = lastPrices[order.Symbol]

		orderID, err := r.Broker.PlaceOrder(ctx, order)
		if err != nil {
			summary.Failed++
			log.Error().Err(err).
				Str("symbol", order.Symbol).
				Str("side", string(order.Side)).
				Int("quantity", order.Quantity).
				Msg("order failed")
			continue
		}
		summary.Placed++

		log.Info().
			Str("order_id", orderID).
			Str("symbol", order.Symbol).
			Str("side", string(order.Side)).
			Int("quantity", order.Quantity).
			Float64("price", order.PriceHint).
			Msg("order placed")

		if err := r.Journal.RecordOrder(journal.OrderRecord{
			RunID:    runID,
			OrderID:  orderID,
			Symbol:   order.Symbol,
			Side:     order.Side,
			Quantity: order.Quantity,
			Price:    order.PriceHint,
			Time:     time.Now().UTC(),
		}); err != nil {
			return summary, fmt.Errorf("record order: %w", err)
		}
	}

	summary.Equity = r.equityAfter(ctx, cash)
	return summary, r.recordEquity(ctx, runID, summary.Equity)
}

// equityAfter values the post-trade positions at refreshed prices on top
// of the pre-trade cash reading. Symbols with no refreshed price
// contribute nothing.
func (r *Runner) equityAfter(ctx context.Context, preCash float64) float64 {
	positions, err := r.Broker.GetPositions(ctx)
	if err != nil {
		r.Log.Warn().Err(err).Msg("could not re-read positions for equity")
		return preCash
	}

	held := make([]string, 0, len(positions))
	for symbol := range positions {
		held = append(held, symbol)
	}

	equity := preCash
	if len(held) > 0 {
		prices, err := r.Data.GetLastPrices(ctx, held)
		if err != nil {
			r.Log.Warn().Err(err).Msg("could not refresh prices for equity")
			return equity
		}
		for symbol, pos := range positions {
			if price, ok := prices[symbol]; ok {
				equity += pos.MarketValue(price)
			}
		}
	}
	return equity
}

func (r *Runner) recordEquity(ctx context.Context, runID string, equity float64) error {
	cash, err := r.Broker.GetCash(ctx)
	if err != nil {
		return fmt.Errorf("get cash for equity record: %w", err)
	}
	if err := r.Journal.RecordEquity(journal.EquitySnapshot{
		RunID:  runID,
		Time:   time.Now().UTC(),
		Cash:   cash,
		Equity: equity,
	}); err != nil {
		return fmt.Errorf("record equity: %w", err)
	}
	return nil
}
