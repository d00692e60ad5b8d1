/*
Package finance provides the financial ledger model and derived reports.

PURPOSE:
  The ledger is the farm's financial record: every expense and revenue,
  paid or pending, optionally tied to a plot. Everything else in this
  package is a derived value computed over an in-memory slice of entries -
  proportional allocation of indirect costs (rateio), per-plot cost
  reports, and dashboard summaries.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: one financial record (expense or revenue, paid or pending)
  - CategoryPayroll: the category that marks payroll postings; payroll
    entries get their own rateio pool in cost reports
  - Filters: small pure helpers for windowing and categorizing entries

DESIGN PRINCIPLES:
  1. Typed fields only: payment status and entry kind are first-class
     fields, never markers inside free text (legacy.go exists solely to
     import old records that still carry markers)
  2. Purity: report calculators take slices and return values; fetching
     and persistence live in store/sqlite
  3. Precision: decimal.Decimal for every monetary amount

SEE ALSO:
  - allocation.go: the rateio calculator
  - report.go: per-plot cost reports and windowed summaries
  - legacy.go: one-time import of marker-tagged records
*/
package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
)

// =============================================================================
// LEDGER ENTRY
// =============================================================================

type EntryID string

type PayStatus string

const (
	StatusPaid    PayStatus = "paid"
	StatusPending PayStatus = "pending"
)

type EntryKind string

const (
	KindExpense EntryKind = "expense"
	KindRevenue EntryKind = "revenue"
)

// CategoryPayroll marks ledger entries produced by payroll postings.
// Cost reports allocate this category as its own indirect pool, and
// employee deletion cleans up entries in it.
const CategoryPayroll = "payroll"

type Entry struct {
	ID          EntryID
	Description string
	Category    string
	// EventKey links a payroll posting back to the projected event it
	// settles. Empty for ordinary records.
	EventKey string
	Amount   decimal.Decimal
	Date     calendar.Date
	Status   PayStatus
	Kind     EntryKind
	PlotID   farm.PlotID // empty = farm-wide / indirect
	Notes    string
}

// IsIndirectCost reports whether the entry belongs in an indirect pool:
// a paid expense with no plot association.
func (e Entry) IsIndirectCost() bool {
	return e.Kind == KindExpense && e.Status == StatusPaid && e.PlotID == ""
}

// =============================================================================
// FILTER HELPERS
// =============================================================================

// InWindow keeps only entries dated inside the period.
func InWindow(entries []Entry, window calendar.Period) []Entry {
	var out []Entry
	for _, e := range entries {
		if window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries orders entries by (date, id). Reconciliation and reports
// depend on this for deterministic results when several entries qualify.
func SortEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
