package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATEIO - Proportional allocation of indirect costs by area share
// =============================================================================

// Allocate splits a farm-wide indirect cost to one plot by its share of the
// total area: total × (plotArea / totalFarmArea).
//
// A zero or negative total area yields zero, never a division error: a farm
// with no measured plots simply has nothing to allocate against.
func Allocate(totalIndirectCost, plotArea, totalFarmArea decimal.Decimal) decimal.Decimal {
	if !totalFarmArea.IsPositive() {
		return decimal.Zero
	}
	return totalIndirectCost.Mul(plotArea).Div(totalFarmArea)
}
