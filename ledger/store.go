package ledger

import (
	"context"
	"time"
)

// Queries is the set of store operations the engine and the calendar builder
// need. It is implemented both by a plain store handle and by an open
// transaction, so a whole recompute pass can run against either.
type Queries interface {
	// DaysFrom returns every Day with date >= from, ascending by date.
	DaysFrom(ctx context.Context, from time.Time) ([]Day, error)
	// DaysBetween returns Days with from <= date <= to, ascending by date.
	DaysBetween(ctx context.Context, from, to time.Time) ([]Day, error)
	// DayBefore returns the most recent Day strictly before date, or ErrNotFound.
	DayBefore(ctx context.Context, date time.Time) (*Day, error)
	// DayByDate returns the Day for an exact date, or ErrNotFound.
	DayByDate(ctx context.Context, date time.Time) (*Day, error)
	// DaysForWeek returns the Days owned by a week, ascending by date.
	DaysForWeek(ctx context.Context, weekID string) ([]Day, error)

	TradesForDay(ctx context.Context, dayID string) ([]Trade, error)
	TradeByID(ctx context.Context, id string) (*Trade, error)

	Week(ctx context.Context, weekID string) (*Week, error)
	// WeekContaining returns the week whose [start,end] range covers date.
	WeekContaining(ctx context.Context, date time.Time) (*Week, error)
	// WeeksOverlapping returns weeks whose range intersects [from, to].
	WeeksOverlapping(ctx context.Context, from, to time.Time) ([]Week, error)

	InsertTrade(ctx context.Context, t Trade) error
	UpdateTrade(ctx context.Context, t Trade) error
	DeleteTrade(ctx context.Context, id string) error
	InsertDay(ctx context.Context, d Day) error
	UpdateDay(ctx context.Context, d Day) error
	InsertWeek(ctx context.Context, w Week) error
	UpdateWeek(ctx context.Context, w Week) error
}

// Tx is an open store transaction. Rollback after Commit must be a no-op so
// callers can always defer it.
type Tx interface {
	Queries
	Commit() error
	Rollback() error
}

// Store is the persistence boundary injected into the ledger. Reads outside a
// mutation may use the store handle directly; every mutation pass must run
// inside a single Tx.
type Store interface {
	Queries
	Begin(ctx context.Context) (Tx, error)
	Close() error
}
