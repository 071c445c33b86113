package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/ledger"
)

func newTestStore(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testDay(id string, date time.Time, weekID string) ledger.Day {
	return ledger.Day{ID: id, Date: date, WeekID: weekID}
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','days','weeks')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["days"])
	assert.True(t, found["weeks"])
}

func TestTradeRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	stop := dec("1.0800")
	in := ledger.Trade{
		ID:           "T1",
		Symbol:       "EURUSD",
		PositionSize: dec("1000"),
		EntryPrice:   dec("1.0850"),
		ExitPrice:    dec("1.0900"),
		StopLoss:     &stop,
		Date:         ledger.Date(2024, time.March, 1),
		DayID:        "D1",
	}
	require.NoError(t, s.InsertTrade(ctx, in))

	got, err := s.TradeByID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, in.Symbol, got.Symbol)
	assert.True(t, got.PositionSize.Equal(in.PositionSize))
	assert.True(t, got.EntryPrice.Equal(in.EntryPrice))
	assert.True(t, got.ExitPrice.Equal(in.ExitPrice))
	require.NotNil(t, got.StopLoss)
	assert.True(t, got.StopLoss.Equal(stop))
	assert.Nil(t, got.TakeProfit)
	assert.Equal(t, in.Date, got.Date)
	assert.Equal(t, "D1", got.DayID)

	trades, err := s.TradesForDay(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, trades, 1)

	require.NoError(t, s.DeleteTrade(ctx, "T1"))
	_, err = s.TradeByID(ctx, "T1")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDayQueries(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	d1 := ledger.Date(2024, time.March, 1)
	d2 := ledger.Date(2024, time.March, 4)
	d3 := ledger.Date(2024, time.March, 5)
	require.NoError(t, s.InsertDay(ctx, testDay("D1", d1, "W1")))
	require.NoError(t, s.InsertDay(ctx, testDay("D2", d2, "W2")))
	require.NoError(t, s.InsertDay(ctx, testDay("D3", d3, "W2")))

	days, err := s.DaysFrom(ctx, d2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "D2", days[0].ID)
	assert.Equal(t, "D3", days[1].ID)

	days, err = s.DaysBetween(ctx, d1, d2)
	require.NoError(t, err)
	require.Len(t, days, 2)

	before, err := s.DayBefore(ctx, d2)
	require.NoError(t, err)
	assert.Equal(t, "D1", before.ID)

	_, err = s.DayBefore(ctx, d1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	byDate, err := s.DayByDate(ctx, d3)
	require.NoError(t, err)
	assert.Equal(t, "D3", byDate.ID)

	owned, err := s.DaysForWeek(ctx, "W2")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "D2", owned[0].ID)
}

func TestWeekQueries(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	w := ledger.Week{
		ID:              "W1",
		StartDate:       ledger.Date(2024, time.February, 26),
		EndDate:         ledger.Date(2024, time.March, 1),
		StartingBalance: dec("1000"),
	}
	require.NoError(t, s.InsertWeek(ctx, w))

	// any date inside the Mon-Sun partition resolves to the week
	got, err := s.WeekContaining(ctx, ledger.Date(2024, time.February, 28))
	require.NoError(t, err)
	assert.Equal(t, "W1", got.ID)

	// weekend dates belong to the week they follow
	got, err = s.WeekContaining(ctx, ledger.Date(2024, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, "W1", got.ID)

	_, err = s.WeekContaining(ctx, ledger.Date(2024, time.March, 4))
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	overlapping, err := s.WeeksOverlapping(ctx, ledger.Date(2024, time.March, 1), ledger.Date(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)

	none, err := s.WeeksOverlapping(ctx, ledger.Date(2024, time.March, 2), ledger.Date(2024, time.March, 31))
	require.NoError(t, err)
	assert.Empty(t, none)

	w.WeekPL = dec("75.50")
	require.NoError(t, s.UpdateWeek(ctx, w))
	got, err = s.Week(ctx, "W1")
	require.NoError(t, err)
	assert.True(t, got.WeekPL.Equal(dec("75.50")))
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateDay(ctx, testDay("nope", ledger.Date(2024, time.March, 1), ""))
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	err = s.DeleteTrade(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTxRollbackLeavesNothing(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	day := testDay("D1", ledger.Date(2024, time.March, 1), "")
	require.NoError(t, tx.InsertDay(ctx, day))

	// visible inside the transaction
	_, err = tx.DayByDate(ctx, day.Date)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())

	_, err = s.DayByDate(ctx, day.Date)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTxCommitPersists(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	day := testDay("D1", ledger.Date(2024, time.March, 1), "")
	day.DayPL = dec("50")
	require.NoError(t, tx.InsertDay(ctx, day))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback()) // no-op after commit

	got, err := s.DayByDate(ctx, day.Date)
	require.NoError(t, err)
	assert.True(t, got.DayPL.Equal(dec("50")))
}

func TestTradesBetween(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	mk := func(id string, date time.Time) ledger.Trade {
		return ledger.Trade{
			ID: id, Symbol: "EURUSD",
			PositionSize: dec("1"), EntryPrice: dec("1"), ExitPrice: dec("2"),
			Date: date,
		}
	}
	require.NoError(t, s.InsertTrade(ctx, mk("T1", ledger.Date(2024, time.March, 1))))
	require.NoError(t, s.InsertTrade(ctx, mk("T2", ledger.Date(2024, time.March, 5))))
	require.NoError(t, s.InsertTrade(ctx, mk("T3", ledger.Date(2024, time.April, 1))))

	trades, err := s.TradesBetween(ctx, ledger.Date(2024, time.March, 1), ledger.Date(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "T1", trades[0].ID)
	assert.Equal(t, "T2", trades[1].ID)
}
