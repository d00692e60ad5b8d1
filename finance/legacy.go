/*
legacy.go - One-time import of marker-tagged ledger records

PURPOSE:
  Older exports of the ledger carried payment status and entry kind as
  string markers embedded inside the free-text notes field: "[S:PG]" for a
  paid record, "[S:PE]" for pending, "[T:REC]" for revenue, "[T:DES]" for
  expense. The current model persists status and kind as typed fields.

  This file is strictly a backward-compatible IMPORT path. It is invoked
  once when ingesting an old export; nothing in the steady-state code
  writes or reads markers.

SEE ALSO:
  - types.go: the typed Status/Kind fields markers migrate into
*/
package finance

import (
	"strings"
)

// Marker vocabulary of the old exports.
const (
	legacyTagPaid    = "[S:PG]"
	legacyTagPending = "[S:PE]"
	legacyTagRevenue = "[T:REC]"
	legacyTagExpense = "[T:DES]"
)

// ImportLegacyTags reads any status/kind markers found in the entry's notes
// into the typed fields and strips the markers from the text. Entries
// without markers come back unchanged. Typed fields already set are only
// overwritten when a marker is present, so re-running the import is safe.
func ImportLegacyTags(e Entry) Entry {
	if !strings.Contains(e.Notes, "[S:") && !strings.Contains(e.Notes, "[T:") {
		return e
	}

	notes := e.Notes
	if strings.Contains(notes, legacyTagPaid) {
		e.Status = StatusPaid
		notes = strings.ReplaceAll(notes, legacyTagPaid, "")
	}
	if strings.Contains(notes, legacyTagPending) {
		e.Status = StatusPending
		notes = strings.ReplaceAll(notes, legacyTagPending, "")
	}
	if strings.Contains(notes, legacyTagRevenue) {
		e.Kind = KindRevenue
		notes = strings.ReplaceAll(notes, legacyTagRevenue, "")
	}
	if strings.Contains(notes, legacyTagExpense) {
		e.Kind = KindExpense
		notes = strings.ReplaceAll(notes, legacyTagExpense, "")
	}
	// Stripping markers leaves double spaces behind; collapse them.
	e.Notes = strings.Join(strings.Fields(notes), " ")
	return e
}

// ImportLegacyBatch applies ImportLegacyTags to a whole export.
func ImportLegacyBatch(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = ImportLegacyTags(e)
	}
	return out
}
