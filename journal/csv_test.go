package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/ledger"
)

func TestWriteTradesCSV(t *testing.T) {
	t.Parallel()

	stop := dec("1.0800")
	trades := []ledger.Trade{
		{
			ID: "T1", Symbol: "EURUSD",
			PositionSize: dec("1000"), EntryPrice: dec("1.0850"), ExitPrice: dec("1.0900"),
			StopLoss: &stop,
			Date:     ledger.Date(2024, time.March, 1),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, trades))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, tradeHeader, recs[0])
	assert.Equal(t, "T1", recs[1][0])
	assert.Equal(t, "1.0800", recs[1][5])
	assert.Equal(t, "", recs[1][6])
	assert.Equal(t, "2024-03-01", recs[1][7])

	// (1.0900 - 1.0850) * 1000 = 5
	profit, err := decimal.NewFromString(recs[1][8])
	require.NoError(t, err)
	assert.True(t, profit.Equal(dec("5")))
}
