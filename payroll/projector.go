/*
projector.go - Expected pay event generation

PURPOSE:
  Walks the projection window month by month and emits the pay events an
  employee is owed: a monthly salary per reference month, the 13º salário
  each December (prorated in the admission year), and vacation pay on each
  employment anniversary.

THE WINDOW:
  From the employee's admission month (day reset to 1) through the horizon,
  HorizonMonths past the as-of date. A future admission date still projects
  forward from admission - future hires can be planned - so the list may
  hold no events before "today". No event is ever due before the admission
  month or after the horizon end; events the lag rule would push past the
  horizon simply show up on the next projection run.

THE RULES (see rules.go - configuration, not law):
  Monthly salary:  due the n-th business day of the FOLLOWING month; the
                   pay day lags the reference month by one.
  13º salário:     December only. salary/12 × months worked in the year;
                   in the admission year, months = 12 - admission month
                   index, minus one more when admission falls after the
                   cutoff day. Due December 10. Suppressed when <= 0.
  Vacation:        on each whole-12-month anniversary of admission.
                   salary × (1 + bonus rate), due one month after the
                   anniversary month.

SALARY LOOKUP:
  salaryEffectiveAt picks the latest history record effective on/before the
  target month (same month counts). With no qualifying record the current
  salary field is used, so a malformed or empty history degrades softly.

SEE ALSO:
  - reconcile.go: classifies these events against the ledger
  - calendar: business-day and month arithmetic
*/
package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
)

var twelve = decimal.NewFromInt(12)

// =============================================================================
// PROJECTOR
// =============================================================================

type Projector struct {
	Rules Rules
}

func NewProjector(rules Rules) *Projector {
	return &Projector{Rules: rules.normalized()}
}

// Project returns the expected pay events for the employee, sorted by due
// date. An employee without an admission date or a positive current salary
// yields an empty list - that is "no data", not an error.
func (p *Projector) Project(emp Employee, asOf calendar.Date) []PayEvent {
	if emp.AdmissionDate.IsZero() || !emp.Salary.IsPositive() {
		return nil
	}

	rules := p.Rules.normalized()
	start := emp.AdmissionDate.StartOfMonth()
	end := asOf.StartOfMonth().AddMonths(rules.HorizonMonths)
	horizonEnd := end.EndOfMonth()

	var events []PayEvent
	for m := start; m.BeforeOrEqual(end); m = m.AddMonths(1) {
		if ev, ok := p.monthlySalary(emp, m, rules); ok {
			events = append(events, ev)
		}
		if ev, ok := p.thirteenthSalary(emp, m, rules); ok {
			events = append(events, ev)
		}
		if ev, ok := p.vacation(emp, m, rules); ok {
			events = append(events, ev)
		}
	}

	events = dropAfter(events, horizonEnd)
	sortByDueDate(events)
	for i := range events {
		events[i].Key = EventKey(emp.ID, events[i].Kind, events[i].Reference)
	}
	return events
}

func (p *Projector) monthlySalary(emp Employee, m calendar.Date, rules Rules) (PayEvent, bool) {
	amount := SalaryEffectiveAt(emp, m)
	if !amount.IsPositive() {
		return PayEvent{}, false
	}
	return PayEvent{
		Kind:      EventMonthlySalary,
		Reference: m.MonthLabel(),
		DueDate:   calendar.NthBusinessDay(m.AddMonths(1), rules.PaydayBusinessDay),
		Amount:    amount,
		Detail:    fmt.Sprintf("Competência %s", m.MonthLabel()),
	}, true
}

func (p *Projector) thirteenthSalary(emp Employee, m calendar.Date, rules Rules) (PayEvent, bool) {
	if m.Month() != 12 {
		return PayEvent{}, false
	}

	months := 12
	if emp.AdmissionDate.Year() == m.Year() {
		months = 12 - (int(emp.AdmissionDate.Month()) - 1)
		if emp.AdmissionDate.Day() > rules.ThirteenthCutoffDay {
			months--
		}
		if months < 0 {
			months = 0
		}
	}

	base := SalaryEffectiveAt(emp, m)
	amount := base.Div(twelve).Mul(decimal.NewFromInt(int64(months)))
	if !amount.IsPositive() {
		return PayEvent{}, false
	}

	return PayEvent{
		Kind:      EventThirteenthSalary,
		Reference: fmt.Sprintf("%d", m.Year()),
		DueDate:   calendar.NewDate(m.Year(), 12, 10),
		Amount:    amount,
		Detail:    fmt.Sprintf("%d/12 avos do exercício %d", months, m.Year()),
	}, true
}

func (p *Projector) vacation(emp Employee, m calendar.Date, rules Rules) (PayEvent, bool) {
	months := calendar.MonthsBetween(emp.AdmissionDate.StartOfMonth(), m)
	if months <= 0 || months%12 != 0 {
		return PayEvent{}, false
	}

	amount := SalaryEffectiveAt(emp, m.AddMonths(1)).
		Mul(decimal.NewFromInt(1).Add(rules.VacationBonusRate))
	if !amount.IsPositive() {
		return PayEvent{}, false
	}

	ref := fmt.Sprintf("%s a %s", m.AddMonths(-11).MonthLabel(), m.MonthLabel())
	return PayEvent{
		Kind:      EventVacation,
		Reference: ref,
		DueDate:   m.AddMonths(1),
		Amount:    amount,
		Detail:    fmt.Sprintf("Período aquisitivo %s", ref),
	}, true
}

// =============================================================================
// SALARY LOOKUP
// =============================================================================

// SalaryEffectiveAt returns the salary in force at the target date's month:
// the history record with the latest effective date on/before that month
// (same month qualifies), falling back to the current salary field when no
// record qualifies or the history is empty.
func SalaryEffectiveAt(emp Employee, at calendar.Date) decimal.Decimal {
	targetMonth := at.StartOfMonth()

	var best *SalaryRecord
	for i := range emp.History {
		rec := &emp.History[i]
		if rec.EffectiveDate.IsZero() {
			continue
		}
		if !rec.EffectiveDate.StartOfMonth().BeforeOrEqual(targetMonth) {
			continue
		}
		if best == nil || rec.EffectiveDate.After(best.EffectiveDate) {
			best = rec
		}
	}
	if best != nil {
		return best.Amount
	}
	return emp.Salary
}

// =============================================================================
// ORDERING
// =============================================================================

func dropAfter(events []PayEvent, limit calendar.Date) []PayEvent {
	out := events[:0]
	for _, ev := range events {
		if ev.DueDate.BeforeOrEqual(limit) {
			out = append(out, ev)
		}
	}
	return out
}

// sortByDueDate orders events ascending by due date. Generation order is
// deterministic and the sort is stable, so ties resolve the same way on
// every run.
func sortByDueDate(events []PayEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DueDate.Before(events[j].DueDate)
	})
}
