/*
posting.go - Deriving a ledger entry from a projected event

PURPOSE:
  Posting is the explicit user action that turns a projected pay event
  into a real financial record. The projector never writes the ledger
  itself; a screen shows the reconciled list and the user posts the events
  that were actually paid (or provisions them as pending).

DESCRIPTION FORMAT:
  "<kind label> - <employee name> (<reference>)", e.g.
  "Salário Mensal - João Pereira (06/2023)". Entries also carry the
  event's stable key; the label in the description keeps them readable
  and lets the fallback matcher resolve them like imported records.

SEE ALSO:
  - reconcile.go: consumes the posted entries on the next run
*/
package payroll

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lavoura/farm-engine/finance"
)

// NewLedgerEntry builds the ledger entry that settles a projected event:
// payroll category, expense, due date as the entry date, the employee's
// plot carried over for direct cost attribution.
func NewLedgerEntry(emp Employee, ev PayEvent, status finance.PayStatus) finance.Entry {
	if status != finance.StatusPaid {
		status = finance.StatusPending
	}
	return finance.Entry{
		ID:          finance.EntryID(uuid.NewString()),
		EventKey:    ev.Key,
		Description: fmt.Sprintf("%s - %s (%s)", ev.Kind.Label(), emp.Name, ev.Reference),
		Category:    finance.CategoryPayroll,
		Amount:      ev.Amount,
		Date:        ev.DueDate,
		Status:      status,
		Kind:        finance.KindExpense,
		PlotID:      emp.PlotID,
		Notes:       ev.Detail,
	}
}
