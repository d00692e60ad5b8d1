/*
Package sqlite provides the SQLite-backed persistence for the farm engine.

PURPOSE:
  Persists the entities the derived calculators consume: employees with
  their salary history, the financial ledger, plots and crop cycles. The
  projector and reconciler themselves stay pure; this package only ferries
  their inputs and outputs.

KEY TABLES:
  employees:       identity, current salary, admission date, status
  salary_history:  one row per {amount, effective_date} history point
  ledger_entries:  the financial ledger (expenses/revenues, paid/pending)
  plots:           land parcels with areas (drives rateio)
  crop_cycles:     bounded production windows per plot
  payroll_runs:    audit records written by the scheduled reconciliation

SALARY HISTORY:
  The history is mutated in memory through the payroll package's rules
  (raise appends, corrections mutate in place) and then persisted
  wholesale: SaveEmployee rewrites the employee's history rows inside one
  transaction, so the stored history always mirrors the in-memory value.

CASCADE ON EMPLOYEE DELETE:
  Deleting an employee also deletes payroll-category ledger entries whose
  description contains the employee's name. This is a best-effort cleanup
  matching how postings are described, not a foreign-key cascade.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and SQLite is opened in WAL mode
  so readers don't block.

USAGE:
  store, err := sqlite.New("./data/farm.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/history.go: the history mutation rules
  - finance/report.go: the calculators fed from ListEntries
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
	"github.com/lavoura/farm-engine/finance"
	"github.com/lavoura/farm-engine/payroll"
)

// Store implements persistence for all farm-engine entities.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT,
		salary TEXT NOT NULL DEFAULT '0',
		admission_date TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		plot_id TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS salary_history (
		employee_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (employee_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_salary_history_employee
		ON salary_history(employee_id, effective_date);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		category TEXT,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		kind TEXT NOT NULL,
		plot_id TEXT,
		event_key TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_event_key
		ON ledger_entries(event_key) WHERE event_key IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_date
		ON ledger_entries(date);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_category
		ON ledger_entries(category);

	CREATE TABLE IF NOT EXISTS plots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		area_ha TEXT NOT NULL DEFAULT '0',
		crop TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crop_cycles (
		id TEXT PRIMARY KEY,
		plot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crop_cycles_plot
		ON crop_cycles(plot_id);

	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		run_at TEXT NOT NULL,
		employees INTEGER NOT NULL DEFAULT 0,
		paid INTEGER NOT NULL DEFAULT 0,
		pending INTEGER NOT NULL DEFAULT 0,
		overdue INTEGER NOT NULL DEFAULT 0,
		provisioned INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_runs_run_at
		ON payroll_runs(run_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee upserts an employee and rewrites its salary history rows in
// one transaction, so the stored history mirrors the in-memory value.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (id, name, role, salary, admission_date, status, plot_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			salary = excluded.salary,
			admission_date = excluded.admission_date,
			status = excluded.status,
			plot_id = excluded.plot_id,
			notes = excluded.notes
	`,
		emp.ID,
		emp.Name,
		emp.Role,
		emp.Salary.String(),
		nullDate(emp.AdmissionDate),
		string(emp.Status),
		nullString(string(emp.PlotID)),
		emp.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM salary_history WHERE employee_id = ?", emp.ID); err != nil {
		return fmt.Errorf("failed to clear salary history: %w", err)
	}
	for i, rec := range emp.History {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO salary_history (employee_id, amount, effective_date, position)
			VALUES (?, ?, ?, ?)
		`, emp.ID, rec.Amount.String(), rec.EffectiveDate.String(), i)
		if err != nil {
			return fmt.Errorf("failed to save salary history: %w", err)
		}
	}

	return tx.Commit()
}

// GetEmployee retrieves an employee with its salary history. Returns nil
// when not found.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, salary, admission_date, status, plot_id, notes
		FROM employees WHERE id = ?
	`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadHistory(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees with their salary histories,
// ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, salary, admission_date, status, plot_id, notes
		FROM employees ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		if err := s.loadHistory(ctx, &employees[i]); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

// DeleteEmployee removes an employee, its salary history, and - best
// effort - the payroll ledger entries posted under the employee's name.
func (s *Store) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM employees WHERE id = ?", id).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM salary_history WHERE employee_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id); err != nil {
		return err
	}
	if name != "" {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM ledger_entries
			WHERE category = ? AND instr(description, ?) > 0
		`, finance.CategoryPayroll, name)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*payroll.Employee, error) {
	var (
		emp       payroll.Employee
		role      sql.NullString
		admission sql.NullString
		plotID    sql.NullString
		notes     sql.NullString
		salary    string
	)

	err := row.Scan(&emp.ID, &emp.Name, &role, &salary, &admission, &emp.Status, &plotID, &notes)
	if err != nil {
		return nil, err
	}

	emp.Role = role.String
	emp.Salary = parseDecimal(salary)
	emp.PlotID = farm.PlotID(plotID.String)
	emp.Notes = notes.String
	if admission.Valid && admission.String != "" {
		d, err := calendar.Parse(admission.String)
		if err != nil {
			return nil, fmt.Errorf("bad admission date for employee %s: %w", emp.ID, err)
		}
		emp.AdmissionDate = d
	}
	return &emp, nil
}

func (s *Store) loadHistory(ctx context.Context, emp *payroll.Employee) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount, effective_date FROM salary_history
		WHERE employee_id = ? ORDER BY position ASC
	`, emp.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var amount, effective string
		if err := rows.Scan(&amount, &effective); err != nil {
			return err
		}
		d, err := calendar.Parse(effective)
		if err != nil {
			return fmt.Errorf("bad effective date in history of %s: %w", emp.ID, err)
		}
		emp.History = append(emp.History, payroll.SalaryRecord{
			Amount:        parseDecimal(amount),
			EffectiveDate: d,
		})
	}
	return rows.Err()
}

// =============================================================================
// LEDGER STORE
// =============================================================================

// SaveEntry upserts a ledger entry.
func (s *Store) SaveEntry(ctx context.Context, e finance.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, description, category, amount, date, status, kind, plot_id, event_key, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			category = excluded.category,
			amount = excluded.amount,
			date = excluded.date,
			status = excluded.status,
			kind = excluded.kind,
			plot_id = excluded.plot_id,
			event_key = excluded.event_key,
			notes = excluded.notes
	`,
		e.ID,
		e.Description,
		e.Category,
		e.Amount.String(),
		e.Date.String(),
		string(e.Status),
		string(e.Kind),
		nullString(string(e.PlotID)),
		nullString(e.EventKey),
		e.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return nil
}

// GetEntry retrieves one ledger entry. Returns nil when not found.
func (s *Store) GetEntry(ctx context.Context, id finance.EntryID) (*finance.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queryEntries(ctx, `
		SELECT id, description, category, amount, date, status, kind, plot_id, event_key, notes
		FROM ledger_entries WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ListEntries returns the whole ledger ordered by (date, id), the order
// reconciliation depends on.
func (s *Store) ListEntries(ctx context.Context) ([]finance.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT id, description, category, amount, date, status, kind, plot_id, event_key, notes
		FROM ledger_entries ORDER BY date ASC, id ASC
	`)
}

// ListEntriesInWindow returns entries dated inside the period.
func (s *Store) ListEntriesInWindow(ctx context.Context, window calendar.Period) ([]finance.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if window.IsOpen() {
		return s.queryEntries(ctx, `
			SELECT id, description, category, amount, date, status, kind, plot_id, event_key, notes
			FROM ledger_entries WHERE date >= ? ORDER BY date ASC, id ASC
		`, window.Start.String())
	}
	return s.queryEntries(ctx, `
		SELECT id, description, category, amount, date, status, kind, plot_id, event_key, notes
		FROM ledger_entries WHERE date >= ? AND date <= ? ORDER BY date ASC, id ASC
	`, window.Start.String(), window.End.String())
}

// ListEntriesByCategory returns entries of one category ordered by (date, id).
func (s *Store) ListEntriesByCategory(ctx context.Context, category string) ([]finance.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT id, description, category, amount, date, status, kind, plot_id, event_key, notes
		FROM ledger_entries WHERE category = ? ORDER BY date ASC, id ASC
	`, category)
}

// DeleteEntry removes a ledger entry.
func (s *Store) DeleteEntry(ctx context.Context, id finance.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM ledger_entries WHERE id = ?", id)
	return err
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]finance.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []finance.Entry
	for rows.Next() {
		var (
			e        finance.Entry
			category sql.NullString
			dateStr  string
			amount   string
			plotID   sql.NullString
			eventKey sql.NullString
			notes    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Description, &category, &amount, &dateStr, &e.Status, &e.Kind, &plotID, &eventKey, &notes); err != nil {
			return nil, err
		}
		d, err := calendar.Parse(dateStr)
		if err != nil {
			return nil, fmt.Errorf("bad date on ledger entry %s: %w", e.ID, err)
		}
		e.Category = category.String
		e.Amount = parseDecimal(amount)
		e.Date = d
		e.PlotID = farm.PlotID(plotID.String)
		e.EventKey = eventKey.String
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// PLOT STORE
// =============================================================================

// SavePlot upserts a plot.
func (s *Store) SavePlot(ctx context.Context, p farm.Plot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plots (id, name, area_ha, crop, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			area_ha = excluded.area_ha,
			crop = excluded.crop,
			notes = excluded.notes
	`,
		p.ID, p.Name, p.AreaHa.String(), p.Crop, p.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPlot retrieves a plot by ID. Returns nil when not found.
func (s *Store) GetPlot(ctx context.Context, id farm.PlotID) (*farm.Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p     farm.Plot
		area  string
		crop  sql.NullString
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, area_ha, crop, notes FROM plots WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &area, &crop, &notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.AreaHa = parseDecimal(area)
	p.Crop = crop.String
	p.Notes = notes.String
	return &p, nil
}

// ListPlots returns all plots ordered by name.
func (s *Store) ListPlots(ctx context.Context) ([]farm.Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, area_ha, crop, notes FROM plots ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plots []farm.Plot
	for rows.Next() {
		var (
			p     farm.Plot
			area  string
			crop  sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &area, &crop, &notes); err != nil {
			return nil, err
		}
		p.AreaHa = parseDecimal(area)
		p.Crop = crop.String
		p.Notes = notes.String
		plots = append(plots, p)
	}
	return plots, rows.Err()
}

// DeletePlot removes a plot.
func (s *Store) DeletePlot(ctx context.Context, id farm.PlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM plots WHERE id = ?", id)
	return err
}

// =============================================================================
// CROP CYCLE STORE
// =============================================================================

// SaveCycle upserts a crop cycle.
func (s *Store) SaveCycle(ctx context.Context, c farm.CropCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crop_cycles (id, plot_id, name, start_date, end_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plot_id = excluded.plot_id,
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			notes = excluded.notes
	`,
		c.ID, c.PlotID, c.Name,
		c.Window.Start.String(),
		nullDate(c.Window.End),
		string(c.Status),
		c.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetCycle retrieves a crop cycle by ID. Returns nil when not found.
func (s *Store) GetCycle(ctx context.Context, id string) (*farm.CropCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cycles, err := s.queryCycles(ctx, `
		SELECT id, plot_id, name, start_date, end_date, status, notes
		FROM crop_cycles WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, nil
	}
	return &cycles[0], nil
}

// ListCycles returns all crop cycles ordered by start date.
func (s *Store) ListCycles(ctx context.Context) ([]farm.CropCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryCycles(ctx, `
		SELECT id, plot_id, name, start_date, end_date, status, notes
		FROM crop_cycles ORDER BY start_date ASC, id ASC
	`)
}

// DeleteCycle removes a crop cycle.
func (s *Store) DeleteCycle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM crop_cycles WHERE id = ?", id)
	return err
}

func (s *Store) queryCycles(ctx context.Context, query string, args ...any) ([]farm.CropCycle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []farm.CropCycle
	for rows.Next() {
		var (
			c     farm.CropCycle
			start string
			end   sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.PlotID, &c.Name, &start, &end, &c.Status, &notes); err != nil {
			return nil, err
		}
		d, err := calendar.Parse(start)
		if err != nil {
			return nil, fmt.Errorf("bad start date on cycle %s: %w", c.ID, err)
		}
		c.Window.Start = d
		if end.Valid && end.String != "" {
			d, err := calendar.Parse(end.String)
			if err != nil {
				return nil, fmt.Errorf("bad end date on cycle %s: %w", c.ID, err)
			}
			c.Window.End = d
		}
		c.Notes = notes.String
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// =============================================================================
// PAYROLL RUN STORE
// =============================================================================

// PayrollRun is one audit record written by the scheduled reconciliation:
// how many projected events landed in each status across active employees.
type PayrollRun struct {
	ID          string
	RunAt       time.Time
	Employees   int
	Paid        int
	Pending     int
	Overdue     int
	Provisioned int
	Error       string
}

// SavePayrollRun records a reconciliation run.
func (s *Store) SavePayrollRun(ctx context.Context, r PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payroll_runs (id, run_at, employees, paid, pending, overdue, provisioned, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.RunAt.UTC().Format(time.RFC3339),
		r.Employees, r.Paid, r.Pending, r.Overdue, r.Provisioned,
		nullString(r.Error),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListPayrollRuns returns the most recent runs, newest first.
func (s *Store) ListPayrollRuns(ctx context.Context, limit int) ([]PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_at, employees, paid, pending, overdue, provisioned, error
		FROM payroll_runs ORDER BY run_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PayrollRun
	for rows.Next() {
		var (
			r     PayrollRun
			runAt string
			errS  sql.NullString
		)
		if err := rows.Scan(&r.ID, &runAt, &r.Employees, &r.Paid, &r.Pending, &r.Overdue, &r.Provisioned, &errS); err != nil {
			return nil, err
		}
		r.RunAt, _ = time.Parse(time.RFC3339, runAt)
		r.Error = errS.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"salary_history", "employees", "ledger_entries", "plots", "crop_cycles", "payroll_runs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d calendar.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
