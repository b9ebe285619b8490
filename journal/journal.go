package journal

import (
	"time"

	"github.com/rustyeddy/rebalancer/broker"
)

// OrderRecord is one executed order within a rebalance pass.
type OrderRecord struct {
	RunID    string
	OrderID  string
	Symbol   string
	Side     broker.Side
	Quantity int
	Price    float64
	Time     time.Time
}

// EquitySnapshot captures the account valuation at the end of a pass.
type EquitySnapshot struct {
	RunID  string
	Time   time.Time
	Cash   float64
	Equity float64
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
