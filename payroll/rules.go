package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RULES - Business-configurable projection constants
// =============================================================================

// Rules holds the payroll constants that are simplified approximations of
// real payroll regulation. They are configuration, not law: deployments
// adjust them via the factory package instead of editing code.
type Rules struct {
	// PaydayBusinessDay: salaries fall due on the n-th business day of the
	// month following the reference month.
	PaydayBusinessDay int

	// VacationBonusRate: vacation pay = salary × (1 + rate).
	VacationBonusRate decimal.Decimal

	// ThirteenthCutoffDay: in the admission year, admission after this day
	// of the month costs one additional month of 13º proration.
	ThirteenthCutoffDay int

	// HorizonMonths: the projection window extends this many calendar
	// months past the as-of date.
	HorizonMonths int
}

// DefaultRules returns the standard rule set: pay on the 5th business day,
// 30% vacation bonus, proration cutoff on the 15th, 12-month horizon.
func DefaultRules() Rules {
	return Rules{
		PaydayBusinessDay:   5,
		VacationBonusRate:   decimal.NewFromFloat(0.30),
		ThirteenthCutoffDay: 15,
		HorizonMonths:       12,
	}
}

// normalized fills invalid fields with defaults so a partially built Rules
// value never collapses the projection window. A zero bonus rate is a valid
// configuration (vacation pays plain salary), so only a negative rate is
// replaced.
func (r Rules) normalized() Rules {
	def := DefaultRules()
	if r.PaydayBusinessDay <= 0 {
		r.PaydayBusinessDay = def.PaydayBusinessDay
	}
	if r.VacationBonusRate.IsNegative() {
		r.VacationBonusRate = def.VacationBonusRate
	}
	if r.ThirteenthCutoffDay <= 0 {
		r.ThirteenthCutoffDay = def.ThirteenthCutoffDay
	}
	if r.HorizonMonths <= 0 {
		r.HorizonMonths = def.HorizonMonths
	}
	return r
}
