package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lavoura/farm-engine/finance"
)

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestAllocate_ProportionalByAreaShare(t *testing.T) {
	// 1000 over a 50ha farm: a 20ha plot carries 400.
	got := finance.Allocate(money(1000), money(20), money(50))
	assert.True(t, money(400).Equal(got), "got %s", got)
}

func TestAllocate_ZeroFarmAreaReturnsZero(t *testing.T) {
	got := finance.Allocate(money(1000), money(5), decimal.Zero)
	assert.True(t, got.IsZero())

	got = finance.Allocate(money(1000), money(5), money(-10))
	assert.True(t, got.IsZero())
}

func TestAllocate_ZeroPlotAreaReturnsZero(t *testing.T) {
	got := finance.Allocate(money(1000), decimal.Zero, money(50))
	assert.True(t, got.IsZero())
}

func TestAllocate_SharesSumToTotal(t *testing.T) {
	total := money(900)
	areas := []decimal.Decimal{money(10), money(20), money(30)}
	farmArea := money(60)

	sum := decimal.Zero
	for _, a := range areas {
		sum = sum.Add(finance.Allocate(total, a, farmArea))
	}
	assert.True(t, total.Equal(sum), "shares sum to %s", sum)
}
