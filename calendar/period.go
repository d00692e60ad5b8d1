package calendar

// =============================================================================
// PERIOD - Closed date interval used as a reporting window
// =============================================================================

// Period is a closed interval [Start, End]. Cost reports, crop cycles and
// dashboard summaries all attribute entries to a Period.
//
// A zero End means "open ended" (e.g., a crop cycle still in the field).
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether t falls inside the period. An open-ended period
// contains every date on/after Start.
func (p Period) Contains(t Date) bool {
	if t.Before(p.Start) {
		return false
	}
	if p.End.IsZero() {
		return true
	}
	return t.BeforeOrEqual(p.End)
}

// IsOpen reports whether the period has no end date yet.
func (p Period) IsOpen() bool { return p.End.IsZero() }

// Valid reports whether the period is well formed (End not before Start).
func (p Period) Valid() bool {
	return !p.Start.IsZero() && (p.End.IsZero() || p.Start.BeforeOrEqual(p.End))
}

// CalendarYear returns the Jan 1 - Dec 31 period for a year.
func CalendarYear(year int) Period {
	return Period{
		Start: NewDate(year, 1, 1),
		End:   NewDate(year, 12, 31),
	}
}

func (p Period) String() string {
	if p.End.IsZero() {
		return "[" + p.Start.String() + ", ...)"
	}
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
