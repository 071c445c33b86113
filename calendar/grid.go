// Package calendar builds the month view: a fixed 6x7 grid of day cells
// merging Day and Week aggregates. It is a pure read-side projection over the
// ledger store and never writes.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/risk"
)

// Cells in a grid: 6 weeks of 7 days, regardless of month length.
const GridCells = 6 * 7

// Cell is one date of the grid. Nil pointers mean "no data", never an error:
// most dates have no Day row and spillover dates belong to adjacent months.
type Cell struct {
	Date      time.Time
	InMonth   bool
	DayPL     *decimal.Decimal
	Risk10    *decimal.Decimal
	WeekPL    *decimal.Decimal // weekend cells only
	DailyRisk *decimal.Decimal
}

// Grid is a rendered month plus the prev/next month links for paging.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell

	PrevYear  int
	PrevMonth time.Month
	NextYear  int
	NextMonth time.Month
}

// Build assembles the grid for a month. Day aggregates are read for the month
// only; weeks are read for the whole visible range so a week spilling in from
// an adjacent month still contributes its balance data.
func Build(ctx context.Context, q ledger.Queries, year int, month time.Month, riskPercent decimal.Decimal) (*Grid, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	firstDay := ledger.Date(year, month, 1)
	lastDay := firstDay.AddDate(0, 1, -1)
	startGrid := ledger.WeekStart(firstDay)
	endGrid := startGrid.AddDate(0, 0, GridCells-1)

	days, err := q.DaysBetween(ctx, firstDay, lastDay)
	if err != nil {
		return nil, fmt.Errorf("load days: %w", err)
	}
	weeks, err := q.WeeksOverlapping(ctx, startGrid, endGrid)
	if err != nil {
		return nil, fmt.Errorf("load weeks: %w", err)
	}

	dayByDate := make(map[time.Time]ledger.Day, len(days))
	for _, d := range days {
		dayByDate[d.Date] = d
	}

	// Per-date week association for daily risk, and the designated Saturday
	// cell that displays each week's total.
	type weekData struct {
		starting decimal.Decimal
		weekPL   decimal.Decimal
	}
	weekByDate := make(map[time.Time]weekData)
	satWeekPL := make(map[time.Time]decimal.Decimal)

	for _, w := range weeks {
		from, to := overlap(w.StartDate, w.EndDate, startGrid, endGrid)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			weekByDate[d] = weekData{starting: w.StartingBalance, weekPL: w.WeekPL}
		}

		// The week's total shows on the Saturday following its start, even
		// when the stored range ends on Friday.
		offset := (5 - int(w.StartDate.Weekday()) + 7) % 7
		saturday := w.StartDate.AddDate(0, 0, offset)
		if !saturday.Before(startGrid) && !saturday.After(endGrid) {
			satWeekPL[saturday] = w.WeekPL
		}
	}

	g := &Grid{Year: year, Month: month, Cells: make([]Cell, 0, GridCells)}

	prev := firstDay.AddDate(0, 0, -1)
	next := lastDay.AddDate(0, 0, 1)
	g.PrevYear, g.PrevMonth = prev.Year(), prev.Month()
	g.NextYear, g.NextMonth = next.Year(), next.Month()

	for i := 0; i < GridCells; i++ {
		date := startGrid.AddDate(0, 0, i)
		cell := Cell{Date: date, InMonth: date.Month() == month && date.Year() == year}

		if d, ok := dayByDate[date]; ok {
			pl, r10 := d.DayPL, d.Risk10
			cell.DayPL = &pl
			cell.Risk10 = &r10
		}
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			if pl, ok := satWeekPL[date]; ok {
				cell.WeekPL = &pl
			}
		}
		if wd, ok := weekByDate[date]; ok {
			dr := risk.Daily(wd.starting, wd.weekPL, riskPercent)
			cell.DailyRisk = &dr
		}

		g.Cells = append(g.Cells, cell)
	}

	return g, nil
}

// overlap clips [aFrom, aTo] to [bFrom, bTo]. Callers only pass ranges known
// to intersect.
func overlap(aFrom, aTo, bFrom, bTo time.Time) (time.Time, time.Time) {
	from, to := aFrom, aTo
	if from.Before(bFrom) {
		from = bFrom
	}
	if to.After(bTo) {
		to = bTo
	}
	return from, to
}
