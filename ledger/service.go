package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/pkg/id"
)

// Ledger ties trade mutations and the recompute engine together behind one
// transactional boundary: the trade write and the cascading recompute either
// both commit or both roll back. A mutex serializes mutation passes because
// cascading balances race under concurrent writers.
type Ledger struct {
	store  Store
	engine *Engine
	// opening seeds the starting balance of the very first trading week.
	opening decimal.Decimal
	log     *zap.SugaredLogger

	mu sync.Mutex
}

func New(store Store, engine *Engine, openingBalance decimal.Decimal, log *zap.SugaredLogger) *Ledger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ledger{store: store, engine: engine, opening: openingBalance, log: log}
}

// AddTrade validates the draft, links it to its Day (creating the Day and
// Week partition rows on first use, the way the original schema triggers
// did), writes it and recomputes the chain from the trade date.
func (l *Ledger) AddTrade(ctx context.Context, draft TradeDraft) (Trade, error) {
	t, err := ParseDraft(draft)
	if err != nil {
		return Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return Trade{}, err
	}
	defer tx.Rollback()

	day, err := l.ensureDay(ctx, tx, t.Date)
	if err != nil {
		return Trade{}, err
	}

	t.ID = id.New()
	t.DayID = day.ID
	if err := tx.InsertTrade(ctx, t); err != nil {
		return Trade{}, err
	}

	if err := l.engine.RecomputeFrom(ctx, tx, t.Date); err != nil {
		return Trade{}, err
	}
	if err := tx.Commit(); err != nil {
		return Trade{}, err
	}

	l.log.Infow("trade added", "id", t.ID, "symbol", t.Symbol, "date", t.Date.Format(DateFormat))
	return t, nil
}

// UpdateTrade rewrites an existing trade. When the date moves, the recompute
// anchors at the earlier of the old and new dates so both affected ranges are
// corrected in one pass.
func (l *Ledger) UpdateTrade(ctx context.Context, tradeID string, draft TradeDraft) (Trade, error) {
	t, err := ParseDraft(draft)
	if err != nil {
		return Trade{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return Trade{}, err
	}
	defer tx.Rollback()

	old, err := tx.TradeByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Trade{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return Trade{}, err
	}

	t.ID = old.ID
	t.DayID = old.DayID
	anchor := old.Date
	if t.Date.Before(anchor) {
		anchor = t.Date
	}
	if !t.Date.Equal(old.Date) {
		day, err := l.ensureDay(ctx, tx, t.Date)
		if err != nil {
			return Trade{}, err
		}
		t.DayID = day.ID
	}

	if err := tx.UpdateTrade(ctx, t); err != nil {
		return Trade{}, err
	}
	if err := l.engine.RecomputeFrom(ctx, tx, anchor); err != nil {
		return Trade{}, err
	}
	if err := tx.Commit(); err != nil {
		return Trade{}, err
	}

	l.log.Infow("trade updated", "id", t.ID, "anchor", anchor.Format(DateFormat))
	return t, nil
}

// DeleteTrade removes a trade and recomputes from its date. The Day row
// stays, with day_pl falling back to the sum of whatever trades remain.
func (l *Ledger) DeleteTrade(ctx context.Context, tradeID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	old, err := tx.TradeByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return err
	}

	if err := tx.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	if err := l.engine.RecomputeFrom(ctx, tx, old.Date); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	l.log.Infow("trade deleted", "id", tradeID, "date", old.Date.Format(DateFormat))
	return nil
}

// RecomputeFrom runs a standalone recompute pass anchored at date, in its own
// transaction. Useful after imports or to repair a chain by hand.
func (l *Ledger) RecomputeFrom(ctx context.Context, date time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := l.engine.RecomputeFrom(ctx, tx, date); err != nil {
		return err
	}
	return tx.Commit()
}

// ensureDay returns the Day row for a date, creating it (and its owning week
// partition) when the date has never seen a trade.
func (l *Ledger) ensureDay(ctx context.Context, q Queries, date time.Time) (*Day, error) {
	date = Midnight(date)

	day, err := q.DayByDate(ctx, date)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	week, err := l.ensureWeek(ctx, q, date)
	if err != nil {
		return nil, err
	}

	created := Day{ID: id.New(), Date: date, WeekID: week.ID}
	if err := q.InsertDay(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (l *Ledger) ensureWeek(ctx context.Context, q Queries, date time.Time) (*Week, error) {
	week, err := q.WeekContaining(ctx, date)
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	start := WeekStart(date)
	end := start.AddDate(0, 0, 4) // Mon-Fri trading week

	// Seed the week from the balance carried into it, falling back to the
	// configured opening balance for a fresh ledger.
	starting := l.opening
	if before, err := q.DayBefore(ctx, start); err == nil {
		starting = before.CurrentBalance
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created := Week{ID: id.New(), StartDate: start, EndDate: end, StartingBalance: starting}
	if err := q.InsertWeek(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}
