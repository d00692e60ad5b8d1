package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func date(y int, m time.Month, d int) calendar.Date { return calendar.NewDate(y, m, d) }

func worker(salary float64, admission calendar.Date) payroll.Employee {
	emp := payroll.Employee{
		ID:            "emp-1",
		Name:          "João Pereira",
		Role:          "Tratorista",
		Salary:        money(salary),
		AdmissionDate: admission,
		Status:        payroll.StatusActive,
	}
	payroll.SeedHistory(&emp)
	return emp
}

func eventsOfKind(events []payroll.PayEvent, kind payroll.EventKind) []payroll.PayEvent {
	var out []payroll.PayEvent
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// =============================================================================
// PROJECTION WINDOW
// =============================================================================

func TestProject_MissingAdmissionOrSalary_EmptyList(t *testing.T) {
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)

	noAdmission := payroll.Employee{Salary: money(3000)}
	assert.Empty(t, p.Project(noAdmission, asOf))

	noSalary := payroll.Employee{AdmissionDate: date(2023, time.March, 10)}
	assert.Empty(t, p.Project(noSalary, asOf))
}

func TestProject_WindowBound(t *testing.T) {
	// GIVEN: an employee admitted well in the past
	// THEN: every due date sits between the admission month and the horizon
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)
	emp := worker(3000, date(2022, time.June, 1))

	events := p.Project(emp, asOf)
	require.NotEmpty(t, events)

	floor := emp.AdmissionDate.StartOfMonth()
	ceiling := asOf.AddMonths(12).EndOfMonth()
	for _, ev := range events {
		assert.True(t, ev.DueDate.AfterOrEqual(floor), "event %s/%s due %s precedes admission month", ev.Kind, ev.Reference, ev.DueDate)
		assert.True(t, ev.DueDate.BeforeOrEqual(ceiling), "event %s/%s due %s past horizon", ev.Kind, ev.Reference, ev.DueDate)
	}
}

func TestProject_Deterministic(t *testing.T) {
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)
	emp := worker(3000, date(2022, time.June, 1))
	emp.History = append(emp.History, payroll.SalaryRecord{
		Amount:        money(3500),
		EffectiveDate: date(2023, time.April, 1),
	})

	first := p.Project(emp, asOf)
	second := p.Project(emp, asOf)

	require.Equal(t, len(first), len(second))
	assert.Equal(t, first, second)
}

func TestProject_FutureHire_ProjectsForwardFromAdmission(t *testing.T) {
	// Future hires can be planned: the list holds no events before "today",
	// and none before the admission month.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)
	emp := worker(2800, date(2024, time.February, 1))

	events := p.Project(emp, asOf)
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.True(t, ev.DueDate.AfterOrEqual(emp.AdmissionDate.StartOfMonth()))
		assert.True(t, ev.DueDate.After(asOf))
	}
}

// =============================================================================
// MONTHLY SALARY EVENTS
// =============================================================================

func TestProject_MonthlySalary_DueFifthBusinessDayOfFollowingMonth(t *testing.T) {
	// November 2025 starts on a Saturday, so the pay day for the October
	// reference month must skip the two weekend days: the 5th business
	// day is Friday, November 7.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2025, time.October, 1)
	emp := worker(3000, date(2025, time.January, 2))

	events := p.Project(emp, asOf)

	var october *payroll.PayEvent
	for i, ev := range events {
		if ev.Kind == payroll.EventMonthlySalary && ev.Reference == "10/2025" {
			october = &events[i]
			break
		}
	}
	require.NotNil(t, october, "monthly event for 10/2025 missing")
	assert.Equal(t, date(2025, time.November, 7), october.DueDate)
	assert.True(t, money(3000).Equal(october.Amount))
}

func TestProject_MonthlySalary_UsesSalaryHistoryPerPeriod(t *testing.T) {
	// GIVEN: a raise effective April 2023
	// THEN: March pays the old amount, April onward the new one
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.June, 1)
	emp := worker(3000, date(2023, time.January, 2))
	payroll.ApplyRaise(&emp, money(3600), date(2023, time.April, 1))

	events := p.Project(emp, asOf)

	byRef := map[string]decimal.Decimal{}
	for _, ev := range eventsOfKind(events, payroll.EventMonthlySalary) {
		byRef[ev.Reference] = ev.Amount
	}
	assert.True(t, money(3000).Equal(byRef["03/2023"]), "03/2023 = %s", byRef["03/2023"])
	assert.True(t, money(3600).Equal(byRef["04/2023"]), "04/2023 = %s", byRef["04/2023"])
	assert.True(t, money(3600).Equal(byRef["05/2023"]), "05/2023 = %s", byRef["05/2023"])
}

// =============================================================================
// 13º SALÁRIO
// =============================================================================

func TestProject_Thirteenth_ProratedInAdmissionYear(t *testing.T) {
	// Admitted 2023-03-10 at 3000: months worked = 12 - 2 = 10 (day 10 is
	// on/before the cutoff, no extra deduction), amount = 3000/12 × 10.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)
	emp := worker(3000, date(2023, time.March, 10))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventThirteenthSalary)
	require.Len(t, events, 1)

	assert.Equal(t, date(2023, time.December, 10), events[0].DueDate)
	assert.True(t, money(2500).Equal(events[0].Amount), "amount = %s", events[0].Amount)
}

func TestProject_Thirteenth_AdmissionAfterCutoffCostsOneMonth(t *testing.T) {
	// Admitted March 20: one extra month deducted, 9/12 of 3000 = 2250.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.October, 1)
	emp := worker(3000, date(2023, time.March, 20))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventThirteenthSalary)
	require.Len(t, events, 1)
	assert.True(t, money(2250).Equal(events[0].Amount), "amount = %s", events[0].Amount)
}

func TestProject_Thirteenth_SuppressedWhenNothingAccrued(t *testing.T) {
	// Admitted December 20: 1 month minus the cutoff deduction leaves 0,
	// so no 13º event is emitted for the admission year.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.November, 1)
	emp := worker(3000, date(2023, time.December, 20))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventThirteenthSalary)
	assert.Empty(t, events)
}

func TestProject_Thirteenth_FullYearAfterAdmissionYear(t *testing.T) {
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2024, time.February, 1)
	emp := worker(3000, date(2023, time.March, 10))

	var year2024 []payroll.PayEvent
	for _, ev := range eventsOfKind(p.Project(emp, asOf), payroll.EventThirteenthSalary) {
		if ev.Reference == "2024" {
			year2024 = append(year2024, ev)
		}
	}
	require.Len(t, year2024, 1)
	assert.True(t, money(3000).Equal(year2024[0].Amount))
}

// =============================================================================
// VACATION
// =============================================================================

func TestProject_Vacation_OnAnniversaryWithBonus(t *testing.T) {
	// Admission 2022-06-01: the June 2023 anniversary yields a vacation
	// event due 2023-07-01 worth salaryEffectiveAt(2023-07) × 1.30.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.June, 15)
	emp := worker(3000, date(2022, time.June, 1))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventVacation)
	require.NotEmpty(t, events)

	first := events[0]
	assert.Equal(t, date(2023, time.July, 1), first.DueDate)
	assert.True(t, money(3900).Equal(first.Amount), "amount = %s", first.Amount)
	assert.Equal(t, "07/2022 a 06/2023", first.Reference)
}

func TestProject_Vacation_UsesSalaryOfTheFollowingMonth(t *testing.T) {
	// A raise effective in the due month (July) prices the vacation.
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2023, time.June, 15)
	emp := worker(3000, date(2022, time.June, 1))
	payroll.ApplyRaise(&emp, money(4000), date(2023, time.July, 1))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventVacation)
	require.NotEmpty(t, events)
	assert.True(t, money(5200).Equal(events[0].Amount), "amount = %s", events[0].Amount)
}

func TestProject_Vacation_NotBeforeFirstAnniversary(t *testing.T) {
	p := payroll.NewProjector(payroll.DefaultRules())
	asOf := date(2022, time.August, 1)
	emp := worker(3000, date(2022, time.June, 1))

	events := eventsOfKind(p.Project(emp, asOf), payroll.EventVacation)
	for _, ev := range events {
		assert.True(t, ev.DueDate.AfterOrEqual(date(2023, time.July, 1)))
	}
}

// =============================================================================
// SALARY LOOKUP
// =============================================================================

func TestSalaryEffectiveAt_HistoryPrecedence(t *testing.T) {
	emp := payroll.Employee{
		Salary: money(900),
		History: []payroll.SalaryRecord{
			{Amount: money(500), EffectiveDate: date(2022, time.January, 1)},
			{Amount: money(800), EffectiveDate: date(2023, time.June, 1)},
		},
	}

	assert.True(t, money(500).Equal(payroll.SalaryEffectiveAt(emp, date(2023, time.March, 1))))
	// Same month counts as effective.
	assert.True(t, money(800).Equal(payroll.SalaryEffectiveAt(emp, date(2023, time.June, 1))))
	// Current salary is ignored once a history record matches.
	assert.True(t, money(800).Equal(payroll.SalaryEffectiveAt(emp, date(2023, time.December, 1))))
}

func TestSalaryEffectiveAt_FallsBackToCurrentSalary(t *testing.T) {
	emp := payroll.Employee{Salary: money(900)}
	assert.True(t, money(900).Equal(payroll.SalaryEffectiveAt(emp, date(2023, time.March, 1))))

	// No record qualifies before the first effective date either.
	emp.History = []payroll.SalaryRecord{{Amount: money(500), EffectiveDate: date(2023, time.June, 1)}}
	assert.True(t, money(900).Equal(payroll.SalaryEffectiveAt(emp, date(2023, time.January, 1))))
}

// =============================================================================
// CONFIGURABLE RULES
// =============================================================================

func TestProject_CustomRules(t *testing.T) {
	// Pay on the 3rd business day with a 40% vacation bonus.
	rules := payroll.Rules{
		PaydayBusinessDay:   3,
		VacationBonusRate:   money(0.40),
		ThirteenthCutoffDay: 15,
		HorizonMonths:       12,
	}
	p := payroll.NewProjector(rules)
	asOf := date(2023, time.June, 15)
	emp := worker(3000, date(2022, time.June, 1))

	events := p.Project(emp, asOf)

	vacations := eventsOfKind(events, payroll.EventVacation)
	require.NotEmpty(t, vacations)
	assert.True(t, money(4200).Equal(vacations[0].Amount), "amount = %s", vacations[0].Amount)

	// September 2023 starts on a Friday: business days 1, 4, 5 - the 3rd
	// business day is the 5th.
	for _, ev := range eventsOfKind(events, payroll.EventMonthlySalary) {
		if ev.Reference == "08/2023" {
			assert.Equal(t, date(2023, time.September, 5), ev.DueDate)
		}
	}
}
