package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(run_id, order_id, symbol, side, quantity, price, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.OrderID, o.Symbol, string(o.Side), o.Quantity, o.Price, o.Time,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, cash, equity)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Cash, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
