package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TradeDraft carries raw trade fields as entered at the boundary (CLI form,
// import file). Everything is a string so validation happens here, in one
// place, before any store write.
type TradeDraft struct {
	Symbol       string
	PositionSize string
	EntryPrice   string
	ExitPrice    string
	StopLoss     string // optional
	TakeProfit   string // optional
	Date         string // YYYY-MM-DD
}

// Profit returns the realized P/L of a trade:
//
//	(exit - entry) * size
//
// Shorts are encoded by price direction (or a negative size), so no side flag
// is needed.
func Profit(t Trade) decimal.Decimal {
	return t.ExitPrice.Sub(t.EntryPrice).Mul(t.PositionSize)
}

// ParseDraft validates a draft and converts it into a Trade value. The
// returned Trade has no ID and no Day link yet. Any missing or non-numeric
// required field yields a *ValidationError.
func ParseDraft(d TradeDraft) (Trade, error) {
	t := Trade{Symbol: strings.ToUpper(strings.TrimSpace(d.Symbol))}
	if t.Symbol == "" {
		return Trade{}, &ValidationError{Field: "symbol", Reason: "is required"}
	}

	var err error
	if t.PositionSize, err = requireDecimal("position_size", d.PositionSize); err != nil {
		return Trade{}, err
	}
	if t.EntryPrice, err = requireDecimal("entry_price", d.EntryPrice); err != nil {
		return Trade{}, err
	}
	if t.ExitPrice, err = requireDecimal("exit_price", d.ExitPrice); err != nil {
		return Trade{}, err
	}
	if t.StopLoss, err = optionalDecimal("stop_loss", d.StopLoss); err != nil {
		return Trade{}, err
	}
	if t.TakeProfit, err = optionalDecimal("take_profit", d.TakeProfit); err != nil {
		return Trade{}, err
	}

	if strings.TrimSpace(d.Date) == "" {
		return Trade{}, &ValidationError{Field: "trade_date", Reason: "is required"}
	}
	day, err := ParseDate(strings.TrimSpace(d.Date))
	if err != nil {
		return Trade{}, &ValidationError{Field: "trade_date", Reason: "must be YYYY-MM-DD"}
	}
	t.Date = day

	return t, nil
}

// ComputeProfit validates the draft and returns its realized P/L without
// touching any store.
func ComputeProfit(d TradeDraft) (decimal.Decimal, error) {
	t, err := ParseDraft(d)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return Profit(t), nil
}

func requireDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Reason: "must be numeric"}
	}
	return v, nil
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be numeric"}
	}
	return &v, nil
}
