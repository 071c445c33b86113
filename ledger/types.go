package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single closed trade as entered by the user. Monetary fields are
// decimals so balance arithmetic stays exact.
type Trade struct {
	ID           string
	Symbol       string
	PositionSize decimal.Decimal
	EntryPrice   decimal.Decimal
	ExitPrice    decimal.Decimal
	StopLoss     *decimal.Decimal
	TakeProfit   *decimal.Decimal
	Date         time.Time // civil date, midnight UTC
	DayID        string    // owning Day row, set when the trade is linked
}

// Day aggregates one calendar date that has at least one trade. All fields
// except ID, Date and WeekID are derived and owned by the recompute engine.
type Day struct {
	ID             string
	Date           time.Time
	DayPL          decimal.Decimal
	EntryBalance   decimal.Decimal
	CurrentBalance decimal.Decimal
	Risk10         decimal.Decimal
	WeekID         string
}

// Week is a Mon-Fri trading week partition. The engine only ever rewrites
// WeekPL; the row itself is created when the first trade of the week lands.
type Week struct {
	ID              string
	StartDate       time.Time
	EndDate         time.Time
	StartingBalance decimal.Decimal
	WeekPL          decimal.Decimal
}
