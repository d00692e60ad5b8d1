/*
Package calendar provides day-granularity date arithmetic for the farm engine.

PURPOSE:
  Payroll projection and cost reporting are calendar problems: pay days lag
  reference months, anniversaries repeat every 12 months, and reports are
  windowed by crop cycles. This package keeps all of that arithmetic in one
  place so the domain packages never touch raw time.Time math.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: a specific day, always UTC, no time-of-day component
  - Month truncation: most payroll rules compare months, not days
  - Business days: pay days skip Saturdays and Sundays

DESIGN PRINCIPLES:
  1. Value semantics: Date is a small immutable value, safe to copy
  2. Month-first: helpers for "same month", "start of month", "months between"
     because the payroll rules are written in months
  3. Zero is "unknown": a zero Date stands in for a missing admission date

USAGE:
  d := calendar.NewDate(2023, time.March, 10)
  pay := calendar.NthBusinessDay(d.StartOfMonth().AddMonths(1), 5)

SEE ALSO:
  - period.go: Closed date intervals used as reporting windows
  - payroll: the main consumer of this package
*/
package calendar

import (
	"time"
)

// =============================================================================
// DATE - A calendar day (UTC, no time-of-day)
// =============================================================================

type Date struct {
	Time time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar day in UTC.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current day.
func Today() Date {
	return FromTime(time.Now().UTC())
}

// Parse reads a Date from ISO "2006-01-02" form.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return FromTime(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.Time.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return FromTime(d.Time.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) IsWorkday() bool { return !d.IsWeekend() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// MONTH ARITHMETIC - Payroll rules are written in months
// =============================================================================

// StartOfMonth resets the day component to 1.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
}

// SameMonth reports whether two dates fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// MonthLabel formats the month as "01/2006", the reference-period label
// used on payroll events.
func (d Date) MonthLabel() string { return d.Time.Format("01/2006") }

// MonthsBetween counts whole calendar months from a to b. The day component
// is ignored: January to March is always 2 regardless of the days involved.
// Negative when b precedes a.
func MonthsBetween(a, b Date) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// =============================================================================
// BUSINESS DAYS - Weekend-skipping due-date arithmetic
// =============================================================================

// NthBusinessDay walks forward from the 1st of the given date's month and
// returns the day on which the n-th weekday occurs. Saturdays and Sundays
// are skipped; public holidays are not considered.
func NthBusinessDay(month Date, n int) Date {
	if n <= 0 {
		n = 1
	}
	d := month.StartOfMonth()
	counted := 0
	for {
		if d.IsWorkday() {
			counted++
			if counted == n {
				return d
			}
		}
		d = d.AddDays(1)
	}
}
