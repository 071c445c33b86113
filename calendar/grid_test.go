package calendar_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/calendar"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/ledger"
)

func newTestStore(t *testing.T) *journal.SQLite {
	t.Helper()

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tenPercent() decimal.Decimal { return dec("10") }

func TestGridShapeEmptyStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	g, err := calendar.Build(context.Background(), store, 2024, time.March, tenPercent())
	require.NoError(t, err)

	require.Len(t, g.Cells, 42)
	assert.Equal(t, ledger.Date(2024, time.February, 26), g.Cells[0].Date)
	assert.Equal(t, time.Monday, g.Cells[0].Date.Weekday())

	inMonth := 0
	for i, c := range g.Cells {
		assert.Equal(t, g.Cells[0].Date.AddDate(0, 0, i), c.Date)
		if c.InMonth {
			inMonth++
			assert.Equal(t, time.March, c.Date.Month())
		}
		// no data anywhere, but never an error
		assert.Nil(t, c.DayPL)
		assert.Nil(t, c.Risk10)
		assert.Nil(t, c.WeekPL)
		assert.Nil(t, c.DailyRisk)
	}
	assert.Equal(t, 31, inMonth)

	assert.Equal(t, 2024, g.PrevYear)
	assert.Equal(t, time.February, g.PrevMonth)
	assert.Equal(t, 2024, g.NextYear)
	assert.Equal(t, time.April, g.NextMonth)
}

func TestGridMergesDayAndWeekAggregates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertWeek(ctx, ledger.Week{
		ID:              "W1",
		StartDate:       ledger.Date(2024, time.February, 26),
		EndDate:         ledger.Date(2024, time.March, 1),
		StartingBalance: dec("1000"),
		WeekPL:          dec("50"),
	}))
	require.NoError(t, store.InsertDay(ctx, ledger.Day{
		ID: "D1", Date: ledger.Date(2024, time.March, 1),
		DayPL: dec("50"), EntryBalance: dec("1000"), CurrentBalance: dec("1050"),
		Risk10: dec("100"), WeekID: "W1",
	}))
	require.NoError(t, store.InsertWeek(ctx, ledger.Week{
		ID:              "W2",
		StartDate:       ledger.Date(2024, time.March, 4),
		EndDate:         ledger.Date(2024, time.March, 8),
		StartingBalance: dec("1050"),
		WeekPL:          dec("20"),
	}))

	g, err := calendar.Build(ctx, store, 2024, time.March, tenPercent())
	require.NoError(t, err)

	cellOn := func(y int, m time.Month, d int) calendar.Cell {
		for _, c := range g.Cells {
			if c.Date.Equal(ledger.Date(y, m, d)) {
				return c
			}
		}
		t.Fatalf("no cell for %d-%d-%d", y, m, d)
		return calendar.Cell{}
	}

	friday := cellOn(2024, time.March, 1)
	require.NotNil(t, friday.DayPL)
	assert.True(t, friday.DayPL.Equal(dec("50")))
	require.NotNil(t, friday.Risk10)
	assert.True(t, friday.Risk10.Equal(dec("100")))
	assert.Nil(t, friday.WeekPL) // week totals only on weekend cells
	// (1000 + 50) * 10 / 100
	require.NotNil(t, friday.DailyRisk)
	assert.True(t, friday.DailyRisk.Equal(dec("105")))

	// the Saturday after the Mon-Fri week carries its total
	saturday := cellOn(2024, time.March, 2)
	require.NotNil(t, saturday.WeekPL)
	assert.True(t, saturday.WeekPL.Equal(dec("50")))
	assert.Nil(t, saturday.DayPL)
	assert.Nil(t, saturday.DailyRisk) // outside the stored Mon-Fri range

	sunday := cellOn(2024, time.March, 3)
	assert.Nil(t, sunday.WeekPL)

	// second week contributes daily risk even without day rows
	monday := cellOn(2024, time.March, 4)
	assert.Nil(t, monday.DayPL)
	require.NotNil(t, monday.DailyRisk)
	assert.True(t, monday.DailyRisk.Equal(dec("107")))
}

// A week that spills past the requested month still shows its total on the
// designated Saturday as long as that Saturday is inside the grid.
func TestGridWeekSpillover(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertWeek(ctx, ledger.Week{
		ID:              "W1",
		StartDate:       ledger.Date(2024, time.April, 29),
		EndDate:         ledger.Date(2024, time.May, 3),
		StartingBalance: dec("2000"),
		WeekPL:          dec("-40"),
	}))

	// April 2024 grid runs Apr 1 .. May 12
	g, err := calendar.Build(ctx, store, 2024, time.April, tenPercent())
	require.NoError(t, err)
	require.Len(t, g.Cells, 42)
	assert.Equal(t, ledger.Date(2024, time.April, 1), g.Cells[0].Date)
	assert.Equal(t, ledger.Date(2024, time.May, 12), g.Cells[41].Date)

	var saturday calendar.Cell
	for _, c := range g.Cells {
		if c.Date.Equal(ledger.Date(2024, time.May, 4)) {
			saturday = c
		}
	}
	assert.False(t, saturday.InMonth)
	require.NotNil(t, saturday.WeekPL)
	assert.True(t, saturday.WeekPL.Equal(dec("-40")))
}

func TestGridYearBoundary(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	g, err := calendar.Build(context.Background(), store, 2024, time.December, tenPercent())
	require.NoError(t, err)

	assert.Equal(t, ledger.Date(2024, time.November, 25), g.Cells[0].Date)
	assert.Equal(t, 2024, g.PrevYear)
	assert.Equal(t, time.November, g.PrevMonth)
	assert.Equal(t, 2025, g.NextYear)
	assert.Equal(t, time.January, g.NextMonth)
}

func TestGridRejectsBadMonth(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := calendar.Build(context.Background(), store, 2024, time.Month(13), tenPercent())
	assert.Error(t, err)
}
