package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/risk"
)

// Engine recomputes the derived fields of the Day/Week chain. It never
// creates or deletes rows and never writes trades; it rewrites day_pl,
// entry_balance, current_balance, risk10 and week_pl only.
type Engine struct {
	log *zap.SugaredLogger
}

func NewEngine(log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{log: log}
}

// RecomputeFrom cascades the balance chain forward from anchor. Every Day on
// or after anchor is recomputed exactly once, in ascending date order, then
// each touched week's P/L is re-summed. The pass must run inside the caller's
// transaction so a failure leaves nothing half-written. Running it twice with
// no intervening mutation yields identical state.
func (e *Engine) RecomputeFrom(ctx context.Context, q Queries, anchor time.Time) error {
	anchor = Midnight(anchor)

	days, err := q.DaysFrom(ctx, anchor)
	if err != nil {
		return fmt.Errorf("load days from %s: %w", anchor.Format(DateFormat), err)
	}
	if len(days) == 0 {
		return nil
	}

	prev, err := e.balanceBefore(ctx, q, days[0])
	if err != nil {
		return err
	}

	// Weeks are re-summed after the day pass; keep first-touch order so the
	// write sequence is deterministic.
	var touched []string
	seen := make(map[string]bool)

	for i := range days {
		if i > 0 {
			// The slice holds every Day >= anchor in date order, so the
			// previous element is always the nearest earlier Day.
			prev = days[i-1].CurrentBalance
		}

		trades, err := q.TradesForDay(ctx, days[i].ID)
		if err != nil {
			return fmt.Errorf("load trades for %s: %w", days[i].Date.Format(DateFormat), err)
		}
		pl := decimal.Zero
		for _, t := range trades {
			pl = pl.Add(Profit(t))
		}

		days[i].DayPL = pl
		days[i].EntryBalance = prev
		days[i].CurrentBalance = prev.Add(pl)
		days[i].Risk10 = risk.Risk10(prev)

		if err := q.UpdateDay(ctx, days[i]); err != nil {
			return fmt.Errorf("update day %s: %w", days[i].Date.Format(DateFormat), err)
		}
		if days[i].WeekID != "" && !seen[days[i].WeekID] {
			seen[days[i].WeekID] = true
			touched = append(touched, days[i].WeekID)
		}
	}

	for _, weekID := range touched {
		if err := e.resumWeek(ctx, q, weekID); err != nil {
			return err
		}
	}

	e.log.Debugw("recompute pass",
		"anchor", anchor.Format(DateFormat),
		"days", len(days),
		"weeks", len(touched))
	return nil
}

// balanceBefore resolves the entry balance for the first day of a pass: the
// nearest earlier Day's current balance, else the owning week's starting
// balance, else zero.
func (e *Engine) balanceBefore(ctx context.Context, q Queries, first Day) (decimal.Decimal, error) {
	before, err := q.DayBefore(ctx, first.Date)
	if err == nil {
		return before.CurrentBalance, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return decimal.Decimal{}, fmt.Errorf("load day before %s: %w", first.Date.Format(DateFormat), err)
	}

	if first.WeekID != "" {
		week, err := q.Week(ctx, first.WeekID)
		if err == nil {
			return week.StartingBalance, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return decimal.Decimal{}, fmt.Errorf("load week %s: %w", first.WeekID, err)
		}
	}
	return decimal.Zero, nil
}

func (e *Engine) resumWeek(ctx context.Context, q Queries, weekID string) error {
	week, err := q.Week(ctx, weekID)
	if err != nil {
		return fmt.Errorf("load week %s: %w", weekID, err)
	}
	days, err := q.DaysForWeek(ctx, weekID)
	if err != nil {
		return fmt.Errorf("load days for week %s: %w", weekID, err)
	}

	pl := decimal.Zero
	for _, d := range days {
		pl = pl.Add(d.DayPL)
	}
	week.WeekPL = pl

	if err := q.UpdateWeek(ctx, *week); err != nil {
		return fmt.Errorf("update week %s: %w", weekID, err)
	}
	return nil
}

// Verify re-reads the chain from a given date and checks the balance
// invariants without writing anything. It returns an *InconsistencyError on
// the first violation.
func (e *Engine) Verify(ctx context.Context, q Queries, from time.Time) error {
	days, err := q.DaysFrom(ctx, Midnight(from))
	if err != nil {
		return err
	}

	weeks := make(map[string]bool)
	for i := range days {
		var prev decimal.Decimal
		if i > 0 {
			prev = days[i-1].CurrentBalance
		} else {
			prev, err = e.balanceBefore(ctx, q, days[i])
			if err != nil {
				return err
			}
		}

		if !days[i].EntryBalance.Equal(prev) {
			return &InconsistencyError{Date: days[i].Date,
				Detail: fmt.Sprintf("entry_balance %s != prior balance %s", days[i].EntryBalance, prev)}
		}
		if !days[i].CurrentBalance.Equal(days[i].EntryBalance.Add(days[i].DayPL)) {
			return &InconsistencyError{Date: days[i].Date,
				Detail: fmt.Sprintf("current_balance %s != entry %s + pl %s",
					days[i].CurrentBalance, days[i].EntryBalance, days[i].DayPL)}
		}
		if days[i].WeekID != "" {
			weeks[days[i].WeekID] = true
		}
	}

	for weekID := range weeks {
		week, err := q.Week(ctx, weekID)
		if err != nil {
			return err
		}
		owned, err := q.DaysForWeek(ctx, weekID)
		if err != nil {
			return err
		}
		pl := decimal.Zero
		for _, d := range owned {
			pl = pl.Add(d.DayPL)
		}
		if !week.WeekPL.Equal(pl) {
			return &InconsistencyError{Date: week.StartDate,
				Detail: fmt.Sprintf("week_pl %s != sum of day_pl %s", week.WeekPL, pl)}
		}
	}
	return nil
}
