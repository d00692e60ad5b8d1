package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavoura/farm-engine/calendar"
)

// =============================================================================
// BUSINESS DAY TESTS
// =============================================================================

func TestNthBusinessDay_MonthStartingMidweek(t *testing.T) {
	// September 2025 starts on a Monday: business days are 1,2,3,4,5.
	month := calendar.NewDate(2025, time.September, 1)
	got := calendar.NthBusinessDay(month, 5)
	assert.Equal(t, calendar.NewDate(2025, time.September, 5), got)
}

func TestNthBusinessDay_MonthStartingOnSaturday(t *testing.T) {
	// November 2025 starts on a Saturday. The 1st and 2nd are weekend days,
	// so business days are 3,4,5,6,7.
	month := calendar.NewDate(2025, time.November, 1)
	got := calendar.NthBusinessDay(month, 5)
	assert.Equal(t, calendar.NewDate(2025, time.November, 7), got)
}

func TestNthBusinessDay_WeekendInsideCount(t *testing.T) {
	// August 2025 starts on a Friday: Fri 1 is day 1, weekend skipped,
	// Mon 4, Tue 5, Wed 6, Thu 7 complete the count.
	month := calendar.NewDate(2025, time.August, 15) // any day of the month works
	got := calendar.NthBusinessDay(month, 5)
	assert.Equal(t, calendar.NewDate(2025, time.August, 7), got)
}

func TestNthBusinessDay_NonPositiveCountClampsToFirst(t *testing.T) {
	month := calendar.NewDate(2025, time.September, 1)
	got := calendar.NthBusinessDay(month, 0)
	assert.Equal(t, calendar.NewDate(2025, time.September, 1), got)
}

// =============================================================================
// MONTH ARITHMETIC TESTS
// =============================================================================

func TestMonthsBetween(t *testing.T) {
	jan := calendar.NewDate(2023, time.January, 31)
	mar := calendar.NewDate(2023, time.March, 1)

	assert.Equal(t, 2, calendar.MonthsBetween(jan, mar))
	assert.Equal(t, -2, calendar.MonthsBetween(mar, jan))
	assert.Equal(t, 12, calendar.MonthsBetween(jan, jan.AddYears(1)))
	assert.Equal(t, 0, calendar.MonthsBetween(jan, calendar.NewDate(2023, time.January, 1)))
}

func TestStartAndEndOfMonth(t *testing.T) {
	d := calendar.NewDate(2024, time.February, 15)
	assert.Equal(t, calendar.NewDate(2024, time.February, 1), d.StartOfMonth())
	// 2024 is a leap year.
	assert.Equal(t, calendar.NewDate(2024, time.February, 29), d.EndOfMonth())
}

func TestSameMonth(t *testing.T) {
	a := calendar.NewDate(2023, time.June, 1)
	b := calendar.NewDate(2023, time.June, 30)
	c := calendar.NewDate(2024, time.June, 1)

	assert.True(t, a.SameMonth(b))
	assert.False(t, a.SameMonth(c))
}

func TestParseRoundTrip(t *testing.T) {
	d, err := calendar.Parse("2023-03-10")
	require.NoError(t, err)
	assert.Equal(t, calendar.NewDate(2023, time.March, 10), d)
	assert.Equal(t, "2023-03-10", d.String())

	_, err = calendar.Parse("10/03/2023")
	assert.Error(t, err)
}

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestPeriodContains(t *testing.T) {
	p := calendar.Period{
		Start: calendar.NewDate(2023, time.July, 1),
		End:   calendar.NewDate(2023, time.December, 31),
	}

	assert.True(t, p.Contains(calendar.NewDate(2023, time.July, 1)))
	assert.True(t, p.Contains(calendar.NewDate(2023, time.December, 31)))
	assert.False(t, p.Contains(calendar.NewDate(2023, time.June, 30)))
	assert.False(t, p.Contains(calendar.NewDate(2024, time.January, 1)))
}

func TestPeriodOpenEnded(t *testing.T) {
	p := calendar.Period{Start: calendar.NewDate(2023, time.July, 1)}

	assert.True(t, p.IsOpen())
	assert.True(t, p.Valid())
	assert.True(t, p.Contains(calendar.NewDate(2030, time.January, 1)))
	assert.False(t, p.Contains(calendar.NewDate(2023, time.June, 30)))
}

func TestPeriodValid(t *testing.T) {
	bad := calendar.Period{
		Start: calendar.NewDate(2023, time.December, 31),
		End:   calendar.NewDate(2023, time.July, 1),
	}
	assert.False(t, bad.Valid())
	assert.True(t, calendar.CalendarYear(2023).Valid())
}
