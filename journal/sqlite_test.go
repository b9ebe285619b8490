package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/rebalancer/broker"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('orders','equity')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["orders"])
	assert.True(t, found["equity"])
}

func TestSQLiteRecordOrder(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := OrderRecord{
		RunID:    "01HV5TEST",
		OrderID:  "ORD-7",
		Symbol:   "AAPL",
		Side:     broker.Buy,
		Quantity: 42,
		Price:    187.32,
		Time:     ts,
	}

	assert.NoError(t, j.RecordOrder(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		runID    string
		orderID  string
		symbol   string
		side     string
		quantity int
		price    float64
		gotTime  time.Time
	)

	err = db.QueryRow(`
        SELECT run_id, order_id, symbol, side, quantity, price, time
        FROM orders LIMIT 1`).Scan(
		&runID, &orderID, &symbol, &side, &quantity, &price, &gotTime,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.RunID, runID)
	assert.Equal(t, rec.OrderID, orderID)
	assert.Equal(t, rec.Symbol, symbol)
	assert.Equal(t, string(rec.Side), side)
	assert.Equal(t, rec.Quantity, quantity)
	assert.InDelta(t, rec.Price, price, 1e-9)
	assert.True(t, gotTime.Equal(rec.Time))
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	rec := EquitySnapshot{
		RunID:  "01HV5TEST",
		Time:   ts,
		Cash:   104.5,
		Equity: 10094.5,
	}

	assert.NoError(t, j.RecordEquity(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		runID   string
		gotTime time.Time
		cash    float64
		equity  float64
	)

	err = db.QueryRow(`
        SELECT run_id, time, cash, equity
        FROM equity LIMIT 1`).Scan(
		&runID, &gotTime, &cash, &equity,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.RunID, runID)
	assert.True(t, gotTime.Equal(rec.Time))
	assert.InDelta(t, rec.Cash, cash, 1e-6)
	assert.InDelta(t, rec.Equity, equity, 1e-6)
}
