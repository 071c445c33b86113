package risk

import "github.com/shopspring/decimal"

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// Risk10 is the classic 10%-of-balance risk budget for a trading day,
// rounded to cents.
func Risk10(entryBalance decimal.Decimal) decimal.Decimal {
	return entryBalance.Mul(ten).Div(hundred).Round(2)
}

// Daily returns the per-day risk budget for a week: the week's running
// balance (starting balance plus accumulated P/L) scaled by riskPercent.
func Daily(startingBalance, weekPL, riskPercent decimal.Decimal) decimal.Decimal {
	return startingBalance.Add(weekPL).Mul(riskPercent).Div(hundred).Round(2)
}

// Planned computes the absolute amount lost if the stop is hit.
func Planned(entry, stop, size decimal.Decimal) decimal.Decimal {
	return entry.Sub(stop).Abs().Mul(size.Abs())
}

// RR is the reward-to-risk ratio of an entry/stop/target triple. Zero stop
// distance yields zero rather than a division error.
func RR(entry, stop, target decimal.Decimal) decimal.Decimal {
	dist := entry.Sub(stop).Abs()
	if dist.IsZero() {
		return decimal.Zero
	}
	return target.Sub(entry).Abs().Div(dist)
}
