package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRisk10(t *testing.T) {
	t.Parallel()

	assert.True(t, Risk10(dec("1000")).Equal(dec("100")))
	assert.True(t, Risk10(dec("1050")).Equal(dec("105")))
	assert.True(t, Risk10(dec("0")).Equal(dec("0")))
	// rounding to cents
	assert.True(t, Risk10(dec("1234.567")).Equal(dec("123.46")))
}

func TestDaily(t *testing.T) {
	t.Parallel()

	// (1000 + 50) * 10 / 100 = 105
	assert.True(t, Daily(dec("1000"), dec("50"), dec("10")).Equal(dec("105")))
	// losing week shrinks the budget
	assert.True(t, Daily(dec("1000"), dec("-200"), dec("10")).Equal(dec("80")))
}

func TestPlanned(t *testing.T) {
	t.Parallel()

	assert.True(t, Planned(dec("1.10"), dec("1.08"), dec("100")).Equal(dec("2")))
	// direction and sign do not matter
	assert.True(t, Planned(dec("1.08"), dec("1.10"), dec("-100")).Equal(dec("2")))
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.True(t, RR(dec("100"), dec("98"), dec("104")).Equal(dec("2")))
	assert.True(t, RR(dec("100"), dec("100"), dec("104")).IsZero())
}
