// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradebook/ledger"
)

var tradeHeader = []string{
	"trade_id", "symbol", "position_size", "entry_price", "exit_price",
	"stop_loss", "take_profit", "trade_date", "profit",
}

// WriteTradesCSV streams trades to w with a header row. Profit is re-derived
// per trade so exports never depend on stored aggregates.
func WriteTradesCSV(w io.Writer, trades []ledger.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}

	for _, t := range trades {
		rec := []string{
			t.ID,
			t.Symbol,
			t.PositionSize.String(),
			t.EntryPrice.String(),
			t.ExitPrice.String(),
			emptyOr(t.StopLoss),
			emptyOr(t.TakeProfit),
			t.Date.Format(ledger.DateFormat),
			ledger.Profit(t).String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func emptyOr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
