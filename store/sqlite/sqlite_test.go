package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
	"github.com/lavoura/farm-engine/finance"
	"github.com/lavoura/farm-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestEmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN an employee with a two-step salary history
	emp := payroll.Employee{
		ID:            "emp-1",
		Name:          "José da Silva",
		Role:          "tratorista",
		Salary:        money("3500"),
		AdmissionDate: calendar.NewDate(2022, time.March, 10),
		Status:        payroll.StatusActive,
		PlotID:        "plot-1",
		Notes:         "turno da manhã",
		History: []payroll.SalaryRecord{
			{Amount: money("3000"), EffectiveDate: calendar.NewDate(2022, time.March, 10)},
			{Amount: money("3500"), EffectiveDate: calendar.NewDate(2023, time.June, 1)},
		},
	}

	// WHEN saved and reloaded
	require.NoError(t, store.SaveEmployee(ctx, emp))
	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// THEN every field survives, history in order
	assert.Equal(t, emp.Name, got.Name)
	assert.Equal(t, emp.Role, got.Role)
	assert.True(t, got.Salary.Equal(money("3500")))
	assert.True(t, got.AdmissionDate.Equal(emp.AdmissionDate))
	assert.Equal(t, payroll.StatusActive, got.Status)
	assert.Equal(t, farm.PlotID("plot-1"), got.PlotID)
	require.Len(t, got.History, 2)
	assert.True(t, got.History[0].Amount.Equal(money("3000")))
	assert.True(t, got.History[1].EffectiveDate.Equal(calendar.NewDate(2023, time.June, 1)))
}

func TestEmployeeWithoutAdmissionDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{
		ID:     "emp-nodate",
		Name:   "Sem Data",
		Status: payroll.StatusActive,
	}))

	got, err := store.GetEmployee(ctx, "emp-nodate")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.AdmissionDate.IsZero())
}

func TestSaveEmployeeRewritesHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := payroll.Employee{
		ID:            "emp-1",
		Name:          "Maria",
		Salary:        money("2000"),
		AdmissionDate: calendar.NewDate(2023, time.January, 5),
		Status:        payroll.StatusActive,
		History: []payroll.SalaryRecord{
			{Amount: money("2000"), EffectiveDate: calendar.NewDate(2023, time.January, 5)},
		},
	}
	require.NoError(t, store.SaveEmployee(ctx, emp))

	// Raise in memory, save again
	payroll.ApplyRaise(&emp, money("2400"), calendar.NewDate(2024, time.February, 1))
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.True(t, got.Salary.Equal(money("2400")))
}

func TestGetEmployeeNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetEmployee(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListEmployeesOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, e := range []payroll.Employee{
		{ID: "b", Name: "Zeca", Status: payroll.StatusActive},
		{ID: "a", Name: "Ana", Status: payroll.StatusActive},
	} {
		require.NoError(t, store.SaveEmployee(ctx, e))
	}

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Zeca", list[1].Name)
}

func TestDeleteEmployeeCascadesPayrollEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN an employee with a payroll posting and an unrelated entry
	emp := payroll.Employee{
		ID:            "emp-1",
		Name:          "Carlos Pereira",
		Salary:        money("3000"),
		AdmissionDate: calendar.NewDate(2023, time.March, 1),
		Status:        payroll.StatusActive,
	}
	require.NoError(t, store.SaveEmployee(ctx, emp))

	require.NoError(t, store.SaveEntry(ctx, finance.Entry{
		ID:          "le-payroll",
		Description: "Salário Mensal - Carlos Pereira (06/2023)",
		Category:    finance.CategoryPayroll,
		Amount:      money("3000"),
		Date:        calendar.NewDate(2023, time.July, 7),
		Status:      finance.StatusPaid,
		Kind:        finance.KindExpense,
	}))
	require.NoError(t, store.SaveEntry(ctx, finance.Entry{
		ID:          "le-diesel",
		Description: "Diesel",
		Amount:      money("500"),
		Date:        calendar.NewDate(2023, time.July, 8),
		Status:      finance.StatusPaid,
		Kind:        finance.KindExpense,
	}))

	// WHEN the employee is deleted
	require.NoError(t, store.DeleteEmployee(ctx, "emp-1"))

	// THEN the employee and its posting are gone, the rest stays
	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, finance.EntryID("le-diesel"), entries[0].ID)
}

func TestDeleteEmployeeMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.DeleteEmployee(context.Background(), "nope"))
}

func TestLedgerRoundTripAndOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []finance.Entry{
		{ID: "le-b", Description: "Adubo", Amount: money("900"), Date: calendar.NewDate(2023, time.May, 10), Status: finance.StatusPending, Kind: finance.KindExpense, PlotID: "plot-1"},
		{ID: "le-a", Description: "Venda de soja", Category: "vendas", Amount: money("15000"), Date: calendar.NewDate(2023, time.May, 10), Status: finance.StatusPaid, Kind: finance.KindRevenue},
		{ID: "le-c", Description: "Diesel", Amount: money("400"), Date: calendar.NewDate(2023, time.April, 2), Status: finance.StatusPaid, Kind: finance.KindExpense},
	}
	for _, e := range entries {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	// ListEntries orders by (date, id)
	got, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, finance.EntryID("le-c"), got[0].ID)
	assert.Equal(t, finance.EntryID("le-a"), got[1].ID)
	assert.Equal(t, finance.EntryID("le-b"), got[2].ID)

	// Fields survive the round trip
	keyed := finance.Entry{
		ID: "le-keyed", Description: "Salário Mensal - José (05/2023)",
		Category: finance.CategoryPayroll, EventKey: "emp-1:monthly_salary:05/2023",
		Amount: money("3000"), Date: calendar.NewDate(2023, time.June, 7),
		Status: finance.StatusPaid, Kind: finance.KindExpense,
	}
	require.NoError(t, store.SaveEntry(ctx, keyed))
	gotKeyed, err := store.GetEntry(ctx, "le-keyed")
	require.NoError(t, err)
	assert.Equal(t, keyed.EventKey, gotKeyed.EventKey)

	one, err := store.GetEntry(ctx, "le-b")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "Adubo", one.Description)
	assert.True(t, one.Amount.Equal(money("900")))
	assert.Equal(t, finance.StatusPending, one.Status)
	assert.Equal(t, farm.PlotID("plot-1"), one.PlotID)
}

func TestLedgerWindowAndCategoryFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, e := range []finance.Entry{
		{ID: "le-1", Description: "Salário", Category: finance.CategoryPayroll, Amount: money("3000"), Date: calendar.NewDate(2023, time.June, 7), Status: finance.StatusPaid, Kind: finance.KindExpense},
		{ID: "le-2", Description: "Diesel", Amount: money("400"), Date: calendar.NewDate(2023, time.July, 1), Status: finance.StatusPaid, Kind: finance.KindExpense},
	} {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	june, err := store.ListEntriesInWindow(ctx, calendar.Period{
		Start: calendar.NewDate(2023, time.June, 1),
		End:   calendar.NewDate(2023, time.June, 30),
	})
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, finance.EntryID("le-1"), june[0].ID)

	open, err := store.ListEntriesInWindow(ctx, calendar.Period{
		Start: calendar.NewDate(2023, time.June, 15),
	})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, finance.EntryID("le-2"), open[0].ID)

	payrollOnly, err := store.ListEntriesByCategory(ctx, finance.CategoryPayroll)
	require.NoError(t, err)
	require.Len(t, payrollOnly, 1)
	assert.Equal(t, finance.EntryID("le-1"), payrollOnly[0].ID)
}

func TestDeleteEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEntry(ctx, finance.Entry{
		ID: "le-1", Description: "Diesel", Amount: money("400"),
		Date: calendar.NewDate(2023, time.April, 2), Status: finance.StatusPaid, Kind: finance.KindExpense,
	}))
	require.NoError(t, store.DeleteEntry(ctx, "le-1"))

	got, err := store.GetEntry(ctx, "le-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plot := farm.Plot{ID: "plot-1", Name: "Talhão Norte", AreaHa: money("32.5"), Crop: "soja"}
	require.NoError(t, store.SavePlot(ctx, plot))

	got, err := store.GetPlot(ctx, "plot-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Talhão Norte", got.Name)
	assert.True(t, got.AreaHa.Equal(money("32.5")))
	assert.Equal(t, "soja", got.Crop)

	list, err := store.ListPlots(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeletePlot(ctx, "plot-1"))
	gone, err := store.GetPlot(ctx, "plot-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCycleRoundTripOpenEnded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN an open-ended cycle (still in the field)
	cycle := farm.CropCycle{
		ID:     "cycle-1",
		PlotID: "plot-1",
		Name:   "Soja 2023/24",
		Window: calendar.Period{Start: calendar.NewDate(2023, time.October, 1)},
		Status: farm.CycleActive,
	}
	require.NoError(t, store.SaveCycle(ctx, cycle))

	got, err := store.GetCycle(ctx, "cycle-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Window.IsOpen())
	assert.True(t, got.Window.Start.Equal(cycle.Window.Start))

	// WHEN the cycle is closed
	got.Window.End = calendar.NewDate(2024, time.March, 15)
	got.Status = farm.CycleFinished
	require.NoError(t, store.SaveCycle(ctx, *got))

	// THEN the end date persists
	closed, err := store.GetCycle(ctx, "cycle-1")
	require.NoError(t, err)
	assert.False(t, closed.Window.IsOpen())
	assert.Equal(t, farm.CycleFinished, closed.Status)
}

func TestPayrollRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := PayrollRun{ID: "run-1", RunAt: time.Date(2023, 6, 1, 5, 0, 0, 0, time.UTC), Employees: 3, Overdue: 1}
	newer := PayrollRun{ID: "run-2", RunAt: time.Date(2023, 6, 2, 5, 0, 0, 0, time.UTC), Employees: 3, Paid: 4}
	require.NoError(t, store.SavePayrollRun(ctx, older))
	require.NoError(t, store.SavePayrollRun(ctx, newer))

	runs, err := store.ListPayrollRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 4, runs[0].Paid)
	assert.Equal(t, 1, runs[1].Overdue)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{ID: "e", Name: "E", Status: payroll.StatusActive}))
	require.NoError(t, store.SavePlot(ctx, farm.Plot{ID: "p", Name: "P", AreaHa: money("1")}))
	require.NoError(t, store.Reset(ctx))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	plots, err := store.ListPlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, plots)
}
