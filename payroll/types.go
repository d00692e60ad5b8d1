/*
Package payroll projects expected pay events and reconciles them against
the financial ledger.

PURPOSE:
  Given an employee's admission date, current salary and salary history,
  the projector produces the deterministic sequence of expected pay events
  over a bounded window: monthly salaries, the annual "13º salário" bonus,
  and anniversary vacation pay. The reconciler then classifies each
  projected event against what was actually posted to the ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: identity + current salary + append-only salary history
  - SalaryRecord: one {amount, effective date} history point
  - PayEvent: a derived, never-persisted expected payment
  - EventKind labels: the human labels embedded in ledger descriptions,
    which reconciliation matches by containment

DESIGN PRINCIPLES:
  1. Purity: projection and reconciliation are synchronous functions over
     already-fetched slices; no I/O, no hidden state
  2. Determinism: identical inputs always produce identical output, in the
     same order
  3. Precision: decimal.Decimal for salaries and event amounts

USAGE:
  p := payroll.NewProjector(payroll.DefaultRules())
  events := p.Project(emp, calendar.Today())
  rec := payroll.Reconcile(events, ledgerEntries, calendar.Today())

SEE ALSO:
  - projector.go: the event generation algorithm
  - reconcile.go: matching events to ledger entries
  - history.go: salary-history mutations (raise, corrections)
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
	"github.com/lavoura/farm-engine/finance"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeID string

type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "active"
	StatusInactive EmploymentStatus = "inactive"
	StatusOnLeave  EmploymentStatus = "on_leave"
)

// SalaryRecord is one point in an employee's salary history.
type SalaryRecord struct {
	Amount        decimal.Decimal
	EffectiveDate calendar.Date
}

type Employee struct {
	ID            EmployeeID
	Name          string
	Role          string
	Salary        decimal.Decimal // current base salary
	AdmissionDate calendar.Date   // zero = unknown
	Status        EmploymentStatus
	PlotID        farm.PlotID // optional primary plot
	Notes         string

	// History is append-only in normal operation: a raise appends one
	// record. The record whose effective date equals the admission date is
	// the original hiring salary. See history.go for the mutation rules.
	History []SalaryRecord
}

// =============================================================================
// PAY EVENT - Derived expected payment (never persisted)
// =============================================================================

type EventKind string

const (
	EventMonthlySalary    EventKind = "monthly_salary"
	EventThirteenthSalary EventKind = "thirteenth_salary"
	EventVacation         EventKind = "vacation"
)

// Label returns the human label for the kind. Ledger postings embed this
// label in their description, and reconciliation matches by containment,
// so the exact strings are part of the contract.
func (k EventKind) Label() string {
	switch k {
	case EventMonthlySalary:
		return "Salário Mensal"
	case EventThirteenthSalary:
		return "13º Salário"
	case EventVacation:
		return "Férias"
	default:
		return string(k)
	}
}

type PayEvent struct {
	Kind      EventKind
	Reference string // period label, e.g. "06/2023" or "07/2022 a 06/2023"
	DueDate   calendar.Date
	Amount    decimal.Decimal
	Detail    string

	// Key is the event's stable identity across projection runs: employee,
	// kind and reference period. Ledger entries posted from an event carry
	// it, so reconciliation can link the two without depending on the
	// description text.
	Key string
}

// EventKey builds the stable identity for an employee's event.
func EventKey(id EmployeeID, kind EventKind, reference string) string {
	return string(id) + ":" + string(kind) + ":" + reference
}

// =============================================================================
// RECONCILED EVENT - PayEvent + resolved real-world status
// =============================================================================

type ReconcileStatus string

const (
	// StatusPaid: a matching ledger entry exists and is paid.
	StatusPaid ReconcileStatus = "paid"
	// StatusPendingInLedger: a matching entry exists but is still pending.
	StatusPendingInLedger ReconcileStatus = "pending_in_ledger"
	// StatusNotYetPosted: no entry and the due date has passed.
	StatusNotYetPosted ReconcileStatus = "not_yet_posted"
	// StatusProvisioned: no entry and the due date is in the future.
	StatusProvisioned ReconcileStatus = "provisioned"
)

type ReconciledEvent struct {
	PayEvent
	Status        ReconcileStatus
	LedgerEntryID finance.EntryID // set when a ledger match exists
}
