/*
report.go - Derived cost and dashboard figures

PURPOSE:
  Turns a window of ledger entries plus the plot list into the two report
  shapes the screens need:
  - PlotCost: per-plot total cost = direct costs + payroll rateio + general
    rateio, allocated by area share
  - Summary: windowed revenue/expense/pending totals for dashboards

CALCULATION:
  Only PAID expenses count as cost. Indirect pools are paid expenses with
  no plot association, split into the payroll category and everything else,
  so each plot gets two rateio figures.

  All calculators are pure: they are re-run per report render with whatever
  window the caller supplies, and may be memoized on (entries, plots, window).

SEE ALSO:
  - allocation.go: the per-plot share formula
  - farm: plot areas
*/
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
)

// =============================================================================
// PLOT COST REPORT
// =============================================================================

// PlotCost is the cost attribution for a single plot over a window.
type PlotCost struct {
	Plot          farm.Plot
	Direct        decimal.Decimal // paid expenses tied to this plot
	PayrollRateio decimal.Decimal // area share of the indirect payroll pool
	GeneralRateio decimal.Decimal // area share of all other indirect expenses
	Total         decimal.Decimal
}

// CostReport attributes every paid expense in the window to a plot.
// Direct costs go to their plot; indirect costs (no plot) are allocated
// across all plots proportionally by area, in two pools: payroll-category
// entries and everything else.
func CostReport(entries []Entry, plots []farm.Plot, window calendar.Period) []PlotCost {
	windowed := InWindow(entries, window)
	totalArea := farm.TotalArea(plots)

	payrollPool := decimal.Zero
	generalPool := decimal.Zero
	directByPlot := make(map[farm.PlotID]decimal.Decimal)

	for _, e := range windowed {
		if e.Kind != KindExpense || e.Status != StatusPaid {
			continue
		}
		if e.PlotID != "" {
			directByPlot[e.PlotID] = directByPlot[e.PlotID].Add(e.Amount)
			continue
		}
		if e.Category == CategoryPayroll {
			payrollPool = payrollPool.Add(e.Amount)
		} else {
			generalPool = generalPool.Add(e.Amount)
		}
	}

	report := make([]PlotCost, 0, len(plots))
	for _, p := range plots {
		pc := PlotCost{
			Plot:          p,
			Direct:        directByPlot[p.ID],
			PayrollRateio: Allocate(payrollPool, p.AreaHa, totalArea),
			GeneralRateio: Allocate(generalPool, p.AreaHa, totalArea),
		}
		pc.Total = pc.Direct.Add(pc.PayrollRateio).Add(pc.GeneralRateio)
		report = append(report, pc)
	}
	return report
}

// CycleCost scopes the cost report to one crop cycle: its plot, its window.
// Returns a zero-valued PlotCost when the cycle's plot is not in the list.
func CycleCost(entries []Entry, plots []farm.Plot, cycle farm.CropCycle) PlotCost {
	for _, pc := range CostReport(entries, plots, cycle.Window) {
		if pc.Plot.ID == cycle.PlotID {
			return pc
		}
	}
	return PlotCost{}
}

// =============================================================================
// DASHBOARD SUMMARY
// =============================================================================

// Summary is the windowed headline figure set for dashboards.
type Summary struct {
	Window         calendar.Period
	Revenue        decimal.Decimal // paid revenue
	Expense        decimal.Decimal // paid expense
	PendingRevenue decimal.Decimal
	PendingExpense decimal.Decimal
	Net            decimal.Decimal // paid revenue - paid expense
}

// Summarize totals the entries inside the window by kind and status.
func Summarize(entries []Entry, window calendar.Period) Summary {
	s := Summary{Window: window}
	for _, e := range InWindow(entries, window) {
		switch {
		case e.Kind == KindRevenue && e.Status == StatusPaid:
			s.Revenue = s.Revenue.Add(e.Amount)
		case e.Kind == KindRevenue:
			s.PendingRevenue = s.PendingRevenue.Add(e.Amount)
		case e.Kind == KindExpense && e.Status == StatusPaid:
			s.Expense = s.Expense.Add(e.Amount)
		default:
			s.PendingExpense = s.PendingExpense.Add(e.Amount)
		}
	}
	s.Net = s.Revenue.Sub(s.Expense)
	return s
}
