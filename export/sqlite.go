package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/capgains"
	_ "modernc.org/sqlite"
)

const schema = `
DROP TABLE IF EXISTS lots;
DROP TABLE IF EXISTS trades;

CREATE TABLE trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_id TEXT NOT NULL,
	account TEXT,
	symbol TEXT NOT NULL,
	isin TEXT,
	description TEXT,
	category TEXT,
	time TEXT NOT NULL,
	settlement TEXT,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	currency TEXT,
	exchange_rate TEXT,
	price TEXT,
	value TEXT,
	tax TEXT,
	fee TEXT,
	price_eur TEXT,
	value_eur TEXT,
	tax_eur TEXT,
	fee_eur TEXT
);

CREATE TABLE lots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	opening_id INTEGER NOT NULL,
	closing_id INTEGER,
	quantity TEXT NOT NULL,
	open_profit TEXT,
	close_profit TEXT,
	realized BOOLEAN NOT NULL,
	FOREIGN KEY(opening_id) REFERENCES trades(id),
	FOREIGN KEY(closing_id) REFERENCES trades(id)
);
`

// WriteSQLite stores the lots of report and the trades they reference in the
// SQLite database at path. Existing trades and lots tables are replaced.
// Amounts are stored as text to keep their exact decimal value.
func WriteSQLite(ctx context.Context, path string, report *capgains.Report) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	ids, err := insertTrades(ctx, tx, report.Trades())
	if err != nil {
		return err
	}
	if err := insertLots(ctx, tx, report.Lots, ids); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTrades(ctx context.Context, tx *sql.Tx, trades []*capgains.Trade) (map[*capgains.Trade]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trades (
		transaction_id, account, symbol, isin, description, category, time, settlement, side, quantity,
		currency, exchange_rate, price, value, tax, fee, price_eur, value_eur, tax_eur, fee_eur
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make(map[*capgains.Trade]int64, len(trades))
	for _, t := range trades {
		res, err := stmt.ExecContext(ctx,
			t.ID, t.Account, t.Symbol, t.ISIN, t.Description, string(t.Category),
			t.Time.Format(time.RFC3339), t.Settlement.String(), string(t.Side), t.Quantity.String(),
			t.Currency, t.ExchangeRate.String(),
			t.Price.Decimal().String(), t.Value.Decimal().String(), t.Tax.Decimal().String(), t.Fee.Decimal().String(),
			t.PriceEUR.Decimal().String(), t.ValueEUR.Decimal().String(), t.TaxEUR.Decimal().String(), t.FeeEUR.Decimal().String(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert trade %q: %w", t.ID, err)
		}
		if ids[t], err = res.LastInsertId(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func insertLots(ctx context.Context, tx *sql.Tx, lots []*capgains.Lot, ids map[*capgains.Trade]int64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lots (
		symbol, opening_id, closing_id, quantity, open_profit, close_profit, realized
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range lots {
		symbol, _ := capgains.NormalizeSymbol(l.Opening.Symbol)
		var closing, openProfit, closeProfit sql.NullString
		var closingID sql.NullInt64
		if l.Closing != nil {
			closing = sql.NullString{String: l.Closing.ID, Valid: true}
			closingID = sql.NullInt64{Int64: ids[l.Closing], Valid: true}
		}
		realized := false
		if p := l.Profit; p != nil {
			openProfit = sql.NullString{String: p.Open.Decimal().String(), Valid: true}
			if p.Realized {
				realized = true
				closeProfit = sql.NullString{String: p.Close.Decimal().String(), Valid: true}
			}
		}
		_, err := stmt.ExecContext(ctx, symbol, ids[l.Opening], closingID, l.Quantity.String(), openProfit, closeProfit, realized)
		if err != nil {
			return fmt.Errorf("failed to insert lot opened by %q closed by %q: %w", l.Opening.ID, closing.String, err)
		}
	}
	return nil
}
