/*
history.go - Salary history mutation rules

PURPOSE:
  The salary history is the projector's source of truth for past periods,
  so the ways it can change are deliberately narrow:

  1. Creation seeds exactly one record: the hiring salary, effective on
     the admission date.
  2. A raise APPENDS one record with the new amount and an effective date
     chosen by the user, and updates the current-salary field.
  3. Corrections - editing the admission date or the current salary when
     no raise is intended - locate and MUTATE the matching record instead
     of appending a duplicate.

  Everything here is pure slice surgery on the Employee value; persistence
  happens in store/sqlite after the caller is done.

SEE ALSO:
  - projector.go: SalaryEffectiveAt, the consumer of the history
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
)

// SeedHistory initializes the history of a newly created employee with the
// hiring salary. No-op when a history already exists or the employee has
// no admission date or salary yet.
func SeedHistory(emp *Employee) {
	if len(emp.History) > 0 || emp.AdmissionDate.IsZero() || !emp.Salary.IsPositive() {
		return
	}
	emp.History = []SalaryRecord{{
		Amount:        emp.Salary,
		EffectiveDate: emp.AdmissionDate,
	}}
}

// ApplyRaise appends a history record and moves the current salary to the
// new amount. The effective date is chosen by the user; an unset date
// defaults to the first of the current month.
func ApplyRaise(emp *Employee, amount decimal.Decimal, effective calendar.Date) {
	if effective.IsZero() {
		effective = calendar.Today().StartOfMonth()
	}
	emp.History = append(emp.History, SalaryRecord{
		Amount:        amount,
		EffectiveDate: effective,
	})
	emp.Salary = amount
}

// CorrectSalary fixes the current salary without recording a raise: the
// latest history record (the one the current salary came from) is mutated
// in place. With no history the field alone changes and the history is
// seeded from the corrected value.
func CorrectSalary(emp *Employee, amount decimal.Decimal) {
	emp.Salary = amount
	if idx := latestRecord(emp); idx >= 0 {
		emp.History[idx].Amount = amount
		return
	}
	SeedHistory(emp)
}

// CorrectAdmission moves the admission date and re-anchors the hiring
// record - the one whose effective date equals the old admission date - to
// the new one, rather than leaving an orphaned point behind.
func CorrectAdmission(emp *Employee, newDate calendar.Date) {
	old := emp.AdmissionDate
	emp.AdmissionDate = newDate
	for i := range emp.History {
		if emp.History[i].EffectiveDate.Equal(old) {
			emp.History[i].EffectiveDate = newDate
			return
		}
	}
}

// latestRecord returns the index of the record with the greatest effective
// date, or -1 for an empty history.
func latestRecord(emp *Employee) int {
	idx := -1
	for i := range emp.History {
		if idx < 0 || emp.History[i].EffectiveDate.After(emp.History[idx].EffectiveDate) {
			idx = i
		}
	}
	return idx
}
