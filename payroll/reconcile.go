/*
reconcile.go - Classifying projected events against the ledger

PURPOSE:
  For each projected pay event, find the ledger entry that settles it and
  resolve the event's real-world status. Posting an event to the ledger
  (an explicit user action, see posting.go) only changes which branch
  fires on the next reconciliation; it never mutates the projector output,
  so reconciliation is idempotent.

MATCHING:
  Entries posted through this engine carry the event's stable key
  (employee + kind + reference), and a key match wins outright. For
  records that predate the typed link - imported spreadsheets, manual
  entries - the fallback heuristic applies: an entry matches when its date
  falls in the same calendar month as the event's due date AND its
  description contains the event kind's label ("Salário Mensal",
  "13º Salário", "Férias") as a substring. Entries are sorted by
  (date, id) first, and the first match wins, so a duplicate posting
  resolves the same way on every run instead of crashing or dropping the
  event.

STATUS RESOLUTION:
  match paid        -> paid
  match pending     -> pending_in_ledger
  no match, due <= today -> not_yet_posted
  no match, due >  today -> provisioned

SEE ALSO:
  - projector.go: produces the events classified here
  - posting.go: derives the ledger entry an event settles against
*/
package payroll

import (
	"strings"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/finance"
)

// Reconcile classifies every projected event against the ledger snapshot.
// Pure and synchronous: callers must re-run it after any ledger mutation
// completes rather than reusing a stale result.
func Reconcile(events []PayEvent, entries []finance.Entry, today calendar.Date) []ReconciledEvent {
	sorted := finance.SortEntries(entries)

	out := make([]ReconciledEvent, 0, len(events))
	for _, ev := range events {
		rec := ReconciledEvent{PayEvent: ev}

		if match, ok := findMatch(ev, sorted); ok {
			rec.LedgerEntryID = match.ID
			if match.Status == finance.StatusPaid {
				rec.Status = StatusPaid
			} else {
				rec.Status = StatusPendingInLedger
			}
		} else if ev.DueDate.BeforeOrEqual(today) {
			rec.Status = StatusNotYetPosted
		} else {
			rec.Status = StatusProvisioned
		}

		out = append(out, rec)
	}
	return out
}

// findMatch prefers the typed event-key link, then falls back to the
// month + label-containment heuristic for records that predate it. At most
// one match is expected; with duplicates the (date, id) order decides.
func findMatch(ev PayEvent, sorted []finance.Entry) (finance.Entry, bool) {
	if ev.Key != "" {
		for _, e := range sorted {
			if e.EventKey == ev.Key {
				return e, true
			}
		}
	}

	label := ev.Kind.Label()
	for _, e := range sorted {
		if !e.Date.SameMonth(ev.DueDate) {
			continue
		}
		if strings.Contains(e.Description, label) {
			return e, true
		}
	}
	return finance.Entry{}, false
}
