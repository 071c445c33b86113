package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradebook/ledger"
)

// runner is satisfied by both *sql.DB and *sql.Tx, so every query below works
// inside and outside a transaction.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	r runner
}

const tradeColumns = `trade_id, symbol, position_size, entry_price, exit_price, stop_loss, take_profit, trade_date, day_id`
const dayColumns = `day_id, date, day_pl, entry_balance, current_balance, risk10, week_id`
const weekColumns = `week_id, start_date, end_date, starting_balance, week_pl`

func (q queries) DaysFrom(ctx context.Context, from time.Time) ([]ledger.Day, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+dayColumns+`
		FROM days
		WHERE date >= ?
		ORDER BY date ASC`, fmtDate(from))
	if err != nil {
		return nil, err
	}
	return collectDays(rows)
}

func (q queries) DaysBetween(ctx context.Context, from, to time.Time) ([]ledger.Day, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+dayColumns+`
		FROM days
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC`, fmtDate(from), fmtDate(to))
	if err != nil {
		return nil, err
	}
	return collectDays(rows)
}

func (q queries) DayBefore(ctx context.Context, date time.Time) (*ledger.Day, error) {
	row := q.r.QueryRowContext(ctx, `
		SELECT `+dayColumns+`
		FROM days
		WHERE date < ?
		ORDER BY date DESC
		LIMIT 1`, fmtDate(date))
	return scanDay(row)
}

func (q queries) DayByDate(ctx context.Context, date time.Time) (*ledger.Day, error) {
	row := q.r.QueryRowContext(ctx, `
		SELECT `+dayColumns+`
		FROM days
		WHERE date = ?`, fmtDate(date))
	return scanDay(row)
}

func (q queries) DaysForWeek(ctx context.Context, weekID string) ([]ledger.Day, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+dayColumns+`
		FROM days
		WHERE week_id = ?
		ORDER BY date ASC`, weekID)
	if err != nil {
		return nil, err
	}
	return collectDays(rows)
}

func (q queries) TradesForDay(ctx context.Context, dayID string) ([]ledger.Trade, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE day_id = ?
		ORDER BY trade_id ASC`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// TradesBetween returns trades with from <= trade_date <= to, ascending. Not
// part of ledger.Queries; used by exports.
func (q queries) TradesBetween(ctx context.Context, from, to time.Time) ([]ledger.Trade, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_date BETWEEN ? AND ?
		ORDER BY trade_date ASC, trade_id ASC`, fmtDate(from), fmtDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (q queries) TradeByID(ctx context.Context, id string) (*ledger.Trade, error) {
	row := q.r.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, id)
	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	return t, err
}

func (q queries) Week(ctx context.Context, weekID string) (*ledger.Week, error) {
	row := q.r.QueryRowContext(ctx, `
		SELECT `+weekColumns+`
		FROM weeks
		WHERE week_id = ?`, weekID)
	return scanWeek(row)
}

// WeekContaining resolves the Mon-Fri partition covering date. Partitions are
// keyed by their Monday, so weekend dates also land in the week they follow.
func (q queries) WeekContaining(ctx context.Context, date time.Time) (*ledger.Week, error) {
	row := q.r.QueryRowContext(ctx, `
		SELECT `+weekColumns+`
		FROM weeks
		WHERE start_date = ?`, fmtDate(ledger.WeekStart(date)))
	return scanWeek(row)
}

func (q queries) WeeksOverlapping(ctx context.Context, from, to time.Time) ([]ledger.Week, error) {
	rows, err := q.r.QueryContext(ctx, `
		SELECT `+weekColumns+`
		FROM weeks
		WHERE NOT (end_date < ? OR start_date > ?)
		ORDER BY start_date ASC`, fmtDate(from), fmtDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Week
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (q queries) InsertTrade(ctx context.Context, t ledger.Trade) error {
	_, err := q.r.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, t.PositionSize.String(), t.EntryPrice.String(), t.ExitPrice.String(),
		optString(t.StopLoss), optString(t.TakeProfit), fmtDate(t.Date), nullable(t.DayID))
	return err
}

func (q queries) UpdateTrade(ctx context.Context, t ledger.Trade) error {
	res, err := q.r.ExecContext(ctx, `
		UPDATE trades
		SET symbol = ?, position_size = ?, entry_price = ?, exit_price = ?,
		    stop_loss = ?, take_profit = ?, trade_date = ?, day_id = ?
		WHERE trade_id = ?`,
		t.Symbol, t.PositionSize.String(), t.EntryPrice.String(), t.ExitPrice.String(),
		optString(t.StopLoss), optString(t.TakeProfit), fmtDate(t.Date), nullable(t.DayID),
		t.ID)
	return oneRow(res, err, "trade", t.ID)
}

func (q queries) DeleteTrade(ctx context.Context, id string) error {
	res, err := q.r.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, id)
	return oneRow(res, err, "trade", id)
}

func (q queries) InsertDay(ctx context.Context, d ledger.Day) error {
	_, err := q.r.ExecContext(ctx, `
		INSERT INTO days (`+dayColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, fmtDate(d.Date), d.DayPL.String(), d.EntryBalance.String(),
		d.CurrentBalance.String(), d.Risk10.String(), nullable(d.WeekID))
	return err
}

func (q queries) UpdateDay(ctx context.Context, d ledger.Day) error {
	res, err := q.r.ExecContext(ctx, `
		UPDATE days
		SET day_pl = ?, entry_balance = ?, current_balance = ?, risk10 = ?, week_id = ?
		WHERE day_id = ?`,
		d.DayPL.String(), d.EntryBalance.String(), d.CurrentBalance.String(),
		d.Risk10.String(), nullable(d.WeekID), d.ID)
	return oneRow(res, err, "day", d.ID)
}

func (q queries) InsertWeek(ctx context.Context, w ledger.Week) error {
	_, err := q.r.ExecContext(ctx, `
		INSERT INTO weeks (`+weekColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		w.ID, fmtDate(w.StartDate), fmtDate(w.EndDate),
		w.StartingBalance.String(), w.WeekPL.String())
	return err
}

func (q queries) UpdateWeek(ctx context.Context, w ledger.Week) error {
	res, err := q.r.ExecContext(ctx, `
		UPDATE weeks
		SET starting_balance = ?, week_pl = ?
		WHERE week_id = ?`,
		w.StartingBalance.String(), w.WeekPL.String(), w.ID)
	return oneRow(res, err, "week", w.ID)
}

// scanning helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (*ledger.Trade, error) {
	var t ledger.Trade
	var size, entry, exit, tradeDate string
	var stop, target, dayID sql.NullString

	err := s.Scan(&t.ID, &t.Symbol, &size, &entry, &exit, &stop, &target, &tradeDate, &dayID)
	if err != nil {
		return nil, err
	}

	if t.PositionSize, err = decimal.NewFromString(size); err != nil {
		return nil, fmt.Errorf("trade %s position_size: %w", t.ID, err)
	}
	if t.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return nil, fmt.Errorf("trade %s entry_price: %w", t.ID, err)
	}
	if t.ExitPrice, err = decimal.NewFromString(exit); err != nil {
		return nil, fmt.Errorf("trade %s exit_price: %w", t.ID, err)
	}
	if t.StopLoss, err = optDecimal(stop); err != nil {
		return nil, fmt.Errorf("trade %s stop_loss: %w", t.ID, err)
	}
	if t.TakeProfit, err = optDecimal(target); err != nil {
		return nil, fmt.Errorf("trade %s take_profit: %w", t.ID, err)
	}
	if t.Date, err = ledger.ParseDate(tradeDate); err != nil {
		return nil, fmt.Errorf("trade %s trade_date: %w", t.ID, err)
	}
	t.DayID = dayID.String
	return &t, nil
}

func scanDay(s scanner) (*ledger.Day, error) {
	var d ledger.Day
	var date, pl, entry, cur, r10 string
	var weekID sql.NullString

	err := s.Scan(&d.ID, &date, &pl, &entry, &cur, &r10, &weekID)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if d.Date, err = ledger.ParseDate(date); err != nil {
		return nil, fmt.Errorf("day %s date: %w", d.ID, err)
	}
	if d.DayPL, err = decimal.NewFromString(pl); err != nil {
		return nil, fmt.Errorf("day %s day_pl: %w", d.ID, err)
	}
	if d.EntryBalance, err = decimal.NewFromString(entry); err != nil {
		return nil, fmt.Errorf("day %s entry_balance: %w", d.ID, err)
	}
	if d.CurrentBalance, err = decimal.NewFromString(cur); err != nil {
		return nil, fmt.Errorf("day %s current_balance: %w", d.ID, err)
	}
	if d.Risk10, err = decimal.NewFromString(r10); err != nil {
		return nil, fmt.Errorf("day %s risk10: %w", d.ID, err)
	}
	d.WeekID = weekID.String
	return &d, nil
}

func scanWeek(s scanner) (*ledger.Week, error) {
	var w ledger.Week
	var start, end, bal, pl string

	err := s.Scan(&w.ID, &start, &end, &bal, &pl)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if w.StartDate, err = ledger.ParseDate(start); err != nil {
		return nil, fmt.Errorf("week %s start_date: %w", w.ID, err)
	}
	if w.EndDate, err = ledger.ParseDate(end); err != nil {
		return nil, fmt.Errorf("week %s end_date: %w", w.ID, err)
	}
	if w.StartingBalance, err = decimal.NewFromString(bal); err != nil {
		return nil, fmt.Errorf("week %s starting_balance: %w", w.ID, err)
	}
	if w.WeekPL, err = decimal.NewFromString(pl); err != nil {
		return nil, fmt.Errorf("week %s week_pl: %w", w.ID, err)
	}
	return &w, nil
}

func collectDays(rows *sql.Rows) ([]ledger.Day, error) {
	defer rows.Close()

	var out []ledger.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func fmtDate(t time.Time) string {
	return t.Format(ledger.DateFormat)
}

func optString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func optDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// oneRow converts a zero-row UPDATE/DELETE into ErrNotFound so stale IDs
// surface instead of silently doing nothing.
func oneRow(res sql.Result, err error, kind, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ledger.ErrNotFound)
	}
	return nil
}
