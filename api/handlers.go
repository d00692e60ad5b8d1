/*
handlers.go - HTTP API handlers for the farm engine

PURPOSE:
  Exposes the farm engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                   List all employees
    POST   /api/employees                   Create employee
    GET    /api/employees/{id}              Get employee details
    PUT    /api/employees/{id}              Update employee
    DELETE /api/employees/{id}              Delete employee + payroll postings
    POST   /api/employees/{id}/raise        Apply a salary raise
    POST   /api/employees/{id}/corrections  Fix salary / admission typos
    GET    /api/employees/{id}/payroll      Projected + reconciled events

  Payroll:
    GET    /api/payroll/events              Events across active employees
    POST   /api/payroll/post                Materialize one event as an entry
    GET    /api/payroll/runs                Scheduled audit run history

  Ledger:
    GET    /api/ledger                      List entries (from/to/category)
    POST   /api/ledger                      Create entry
    GET    /api/ledger/{id}                 Get entry
    PUT    /api/ledger/{id}                 Update entry
    DELETE /api/ledger/{id}                 Delete entry
    POST   /api/ledger/import-legacy        Convert bracket-tag notes

  Farm:
    GET/POST       /api/plots               Plot CRUD
    GET/PUT/DELETE /api/plots/{id}
    GET/POST       /api/cycles              Crop cycle CRUD
    GET/PUT/DELETE /api/cycles/{id}
    GET            /api/cycles/{id}/cost    Cycle-scoped cost line

  Reports:
    GET    /api/reports/costs               Per-plot cost report (from/to)
    GET    /api/reports/summary             Dashboard cash summary (from/to)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (projector, reconciler, report calculators)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: The cron-driven payroll audit
*/
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/farm"
	"github.com/lavoura/farm-engine/finance"
	"github.com/lavoura/farm-engine/payroll"
	"github.com/lavoura/farm-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Rules payroll.Rules
	Log   *zap.Logger
}

// NewHandler creates a new handler with the given store and payroll rules.
func NewHandler(store *sqlite.Store, rules payroll.Rules, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: store, Rules: rules, Log: log}
}

func (h *Handler) projector() *payroll.Projector {
	return payroll.NewProjector(h.Rules)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee and seeds its salary history.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	emp := payroll.Employee{
		ID:     payroll.EmployeeID(uuid.NewString()),
		Status: payroll.StatusActive,
	}
	if err := applyEmployeeRequest(&emp, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	payroll.SeedHistory(&emp)

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	h.Log.Info("employee created",
		zap.String("id", string(emp.ID)),
		zap.String("name", emp.Name))
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// UpdateEmployee updates an employee's base fields. Salary changes should
// go through the raise or correction endpoints so the history stays honest;
// a changed salary here is treated as a correction.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	oldSalary := emp.Salary
	oldAdmission := emp.AdmissionDate
	if err := applyEmployeeRequest(emp, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if !emp.Salary.Equal(oldSalary) {
		newSalary := emp.Salary
		emp.Salary = oldSalary
		payroll.SeedHistory(emp)
		payroll.CorrectSalary(emp, newSalary)
	}
	if !emp.AdmissionDate.Equal(oldAdmission) {
		newAdmission := emp.AdmissionDate
		emp.AdmissionDate = oldAdmission
		payroll.SeedHistory(emp)
		payroll.CorrectAdmission(emp, newAdmission)
	}

	if err := h.Store.SaveEmployee(r.Context(), *emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee and its payroll postings.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	h.Log.Info("employee deleted", zap.String("id", string(id)))
	w.WriteHeader(http.StatusNoContent)
}

// ApplyRaise records a salary raise effective from a given month.
func (h *Handler) ApplyRaise(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req RaiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Raise amount must be a positive decimal", err)
		return
	}
	var effective calendar.Date
	if req.EffectiveDate != "" {
		effective, err = calendar.Parse(req.EffectiveDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_date, expected YYYY-MM-DD", err)
			return
		}
	}

	payroll.SeedHistory(emp)
	payroll.ApplyRaise(emp, amount, effective)

	if err := h.Store.SaveEmployee(r.Context(), *emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	h.Log.Info("raise applied",
		zap.String("employee", string(emp.ID)),
		zap.String("amount", amount.String()))
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CorrectEmployee fixes a mistyped salary or admission date without
// creating a history step.
func (h *Handler) CorrectEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Salary == "" && req.AdmissionDate == "" {
		writeError(w, http.StatusBadRequest, "Nothing to correct", nil)
		return
	}

	payroll.SeedHistory(emp)
	if req.Salary != "" {
		amount, err := decimal.NewFromString(req.Salary)
		if err != nil || !amount.IsPositive() {
			writeError(w, http.StatusBadRequest, "Salary must be a positive decimal", err)
			return
		}
		payroll.CorrectSalary(emp, amount)
	}
	if req.AdmissionDate != "" {
		d, err := calendar.Parse(req.AdmissionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid admission_date, expected YYYY-MM-DD", err)
			return
		}
		payroll.CorrectAdmission(emp, d)
	}

	if err := h.Store.SaveEmployee(r.Context(), *emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// GetEmployeePayroll returns the employee's projected events with their
// reconciliation status as of a given date (default: today).
func (h *Handler) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	asOf, err := dateQuery(r, "as_of", calendar.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of, expected YYYY-MM-DD", err)
		return
	}

	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	events := h.projector().Project(*emp, asOf)
	reconciled := payroll.Reconcile(events, entries, asOf)
	writeJSON(w, http.StatusOK, toPayEventDTOs(*emp, reconciled))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ListPayrollEvents projects and reconciles events for every active
// employee as of a given date (default: today).
func (h *Handler) ListPayrollEvents(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateQuery(r, "as_of", calendar.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of, expected YYYY-MM-DD", err)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	projector := h.projector()
	dtos := []PayEventDTO{}
	for _, emp := range employees {
		if emp.Status != payroll.StatusActive {
			continue
		}
		events := projector.Project(emp, asOf)
		reconciled := payroll.Reconcile(events, entries, asOf)
		dtos = append(dtos, toPayEventDTOs(emp, reconciled)...)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PostPayrollEvent materializes one projected event as a ledger entry.
func (h *Handler) PostPayrollEvent(w http.ResponseWriter, r *http.Request) {
	var req PostEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), payroll.EmployeeID(req.EmployeeID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	events := h.projector().Project(*emp, calendar.Today())
	var found *payroll.PayEvent
	for i := range events {
		if string(events[i].Kind) == req.Kind && events[i].Reference == req.Reference {
			found = &events[i]
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "No projected event matches that kind and reference", nil)
		return
	}

	status := finance.StatusPending
	if req.Paid {
		status = finance.StatusPaid
	}
	entry := payroll.NewLedgerEntry(*emp, *found, status)
	if err := h.Store.SaveEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ledger entry", err)
		return
	}

	h.Log.Info("payroll event posted",
		zap.String("employee", string(emp.ID)),
		zap.String("kind", req.Kind),
		zap.String("reference", req.Reference))
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// ListPayrollRuns returns the recorded audit runs, newest first.
func (h *Handler) ListPayrollRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListPayrollRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payroll runs", err)
		return
	}

	dtos := make([]PayrollRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = PayrollRunDTO{
			ID:          run.ID,
			RunAt:       run.RunAt.Format("2006-01-02T15:04:05Z07:00"),
			Employees:   run.Employees,
			Paid:        run.Paid,
			Pending:     run.Pending,
			Overdue:     run.Overdue,
			Provisioned: run.Provisioned,
			Error:       run.Error,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListEntries returns ledger entries, optionally filtered by from/to dates
// and category.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	window, err := windowQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to, expected YYYY-MM-DD", err)
		return
	}

	var entries []finance.Entry
	if category := r.URL.Query().Get("category"); category != "" {
		entries, err = h.Store.ListEntriesByCategory(r.Context(), category)
		if err == nil && !window.Start.IsZero() {
			entries = finance.InWindow(entries, window)
		}
	} else if !window.Start.IsZero() {
		entries, err = h.Store.ListEntriesInWindow(r.Context(), window)
	} else {
		entries, err = h.Store.ListEntries(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEntry returns one ledger entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := finance.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get ledger entry", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Ledger entry not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// CreateEntry creates a ledger entry.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry := finance.Entry{ID: finance.EntryID(uuid.NewString())}
	if err := applyEntryRequest(&entry, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SaveEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ledger entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// UpdateEntry updates a ledger entry.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := finance.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get ledger entry", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Ledger entry not found", nil)
		return
	}

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := applyEntryRequest(entry, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SaveEntry(r.Context(), *entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ledger entry", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// DeleteEntry removes a ledger entry.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := finance.EntryID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete ledger entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportLegacy scans every ledger entry for bracket-tag notes left by the
// old spreadsheet ([S:PG], [T:REC], ...), moves them into the typed fields,
// and persists the changed entries.
func (h *Handler) ImportLegacy(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	converted := finance.ImportLegacyBatch(entries)
	changed := 0
	for i := range converted {
		if converted[i].Notes == entries[i].Notes &&
			converted[i].Status == entries[i].Status &&
			converted[i].Kind == entries[i].Kind {
			continue
		}
		if err := h.Store.SaveEntry(r.Context(), converted[i]); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save converted entry", err)
			return
		}
		changed++
	}

	h.Log.Info("legacy import finished",
		zap.Int("scanned", len(entries)),
		zap.Int("changed", changed))
	writeJSON(w, http.StatusOK, ImportLegacyResponse{Scanned: len(entries), Changed: changed})
}

// =============================================================================
// PLOT HANDLERS
// =============================================================================

// ListPlots returns all plots.
func (h *Handler) ListPlots(w http.ResponseWriter, r *http.Request) {
	plots, err := h.Store.ListPlots(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plots", err)
		return
	}

	dtos := make([]PlotDTO, len(plots))
	for i, p := range plots {
		dtos[i] = toPlotDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlot returns one plot.
func (h *Handler) GetPlot(w http.ResponseWriter, r *http.Request) {
	id := farm.PlotID(chi.URLParam(r, "id"))

	plot, err := h.Store.GetPlot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plot", err)
		return
	}
	if plot == nil {
		writeError(w, http.StatusNotFound, "Plot not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPlotDTO(*plot))
}

// CreatePlot creates a plot.
func (h *Handler) CreatePlot(w http.ResponseWriter, r *http.Request) {
	var req SavePlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	plot := farm.Plot{ID: farm.PlotID(uuid.NewString())}
	if err := applyPlotRequest(&plot, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SavePlot(r.Context(), plot); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlotDTO(plot))
}

// UpdatePlot updates a plot.
func (h *Handler) UpdatePlot(w http.ResponseWriter, r *http.Request) {
	id := farm.PlotID(chi.URLParam(r, "id"))

	plot, err := h.Store.GetPlot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plot", err)
		return
	}
	if plot == nil {
		writeError(w, http.StatusNotFound, "Plot not found", nil)
		return
	}

	var req SavePlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := applyPlotRequest(plot, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SavePlot(r.Context(), *plot); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plot", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlotDTO(*plot))
}

// DeletePlot removes a plot.
func (h *Handler) DeletePlot(w http.ResponseWriter, r *http.Request) {
	id := farm.PlotID(chi.URLParam(r, "id"))

	if err := h.Store.DeletePlot(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete plot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CROP CYCLE HANDLERS
// =============================================================================

// ListCycles returns all crop cycles.
func (h *Handler) ListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Store.ListCycles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list crop cycles", err)
		return
	}

	dtos := make([]CycleDTO, len(cycles))
	for i, c := range cycles {
		dtos[i] = toCycleDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCycle returns one crop cycle.
func (h *Handler) GetCycle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cycle, err := h.Store.GetCycle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get crop cycle", err)
		return
	}
	if cycle == nil {
		writeError(w, http.StatusNotFound, "Crop cycle not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCycleDTO(*cycle))
}

// CreateCycle creates a crop cycle.
func (h *Handler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	var req SaveCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cycle := farm.CropCycle{ID: uuid.NewString(), Status: farm.CycleActive}
	if err := applyCycleRequest(&cycle, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SaveCycle(r.Context(), cycle); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save crop cycle", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCycleDTO(cycle))
}

// UpdateCycle updates a crop cycle.
func (h *Handler) UpdateCycle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cycle, err := h.Store.GetCycle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get crop cycle", err)
		return
	}
	if cycle == nil {
		writeError(w, http.StatusNotFound, "Crop cycle not found", nil)
		return
	}

	var req SaveCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := applyCycleRequest(cycle, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SaveCycle(r.Context(), *cycle); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save crop cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleDTO(*cycle))
}

// DeleteCycle removes a crop cycle.
func (h *Handler) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteCycle(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete crop cycle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCycleCost returns the cost line for one cycle: its plot, its window.
func (h *Handler) GetCycleCost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cycle, err := h.Store.GetCycle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get crop cycle", err)
		return
	}
	if cycle == nil {
		writeError(w, http.StatusNotFound, "Crop cycle not found", nil)
		return
	}

	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}
	plots, err := h.Store.ListPlots(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plots", err)
		return
	}

	cost := finance.CycleCost(entries, plots, *cycle)
	writeJSON(w, http.StatusOK, toPlotCostDTO(cost))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetCostReport returns the per-plot cost breakdown for a window.
func (h *Handler) GetCostReport(w http.ResponseWriter, r *http.Request) {
	window, err := windowQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to, expected YYYY-MM-DD", err)
		return
	}

	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}
	plots, err := h.Store.ListPlots(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plots", err)
		return
	}

	report := finance.CostReport(entries, plots, window)
	dto := CostReportDTO{
		From:  window.Start.String(),
		Plots: make([]PlotCostDTO, len(report)),
	}
	if !window.IsOpen() {
		dto.To = window.End.String()
	}
	for i, pc := range report {
		dto.Plots[i] = toPlotCostDTO(pc)
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetSummary returns the dashboard cash summary for a window.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	window, err := windowQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to, expected YYYY-MM-DD", err)
		return
	}

	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger entries", err)
		return
	}

	s := finance.Summarize(entries, window)
	writeJSON(w, http.StatusOK, SummaryDTO{
		Revenue:        s.Revenue.String(),
		Expense:        s.Expense.String(),
		PendingRevenue: s.PendingRevenue.String(),
		PendingExpense: s.PendingExpense.String(),
		Net:            s.Net.String(),
	})
}

// ResetDatabase clears all data (dev/demo only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.Log.Warn("database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// REQUEST APPLICATION HELPERS
// =============================================================================

func applyEmployeeRequest(emp *payroll.Employee, req SaveEmployeeRequest) error {
	emp.Name = strings.TrimSpace(req.Name)
	emp.Role = req.Role
	emp.PlotID = farm.PlotID(req.PlotID)
	emp.Notes = req.Notes

	if req.Status != "" {
		switch payroll.EmploymentStatus(req.Status) {
		case payroll.StatusActive, payroll.StatusInactive, payroll.StatusOnLeave:
			emp.Status = payroll.EmploymentStatus(req.Status)
		default:
			return errBadField("status must be active, inactive or on_leave")
		}
	}
	if req.Salary != "" {
		amount, err := decimal.NewFromString(req.Salary)
		if err != nil || amount.IsNegative() {
			return errBadField("salary must be a non-negative decimal")
		}
		emp.Salary = amount
	}
	if req.AdmissionDate != "" {
		d, err := calendar.Parse(req.AdmissionDate)
		if err != nil {
			return errBadField("admission_date must be YYYY-MM-DD")
		}
		emp.AdmissionDate = d
	}
	return nil
}

func applyEntryRequest(e *finance.Entry, req SaveEntryRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		return errBadField("description is required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return errBadField("amount must be a non-negative decimal")
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		return errBadField("date must be YYYY-MM-DD")
	}

	e.Description = strings.TrimSpace(req.Description)
	e.Category = req.Category
	e.Amount = amount
	e.Date = date
	e.PlotID = farm.PlotID(req.PlotID)
	e.Notes = req.Notes

	switch finance.PayStatus(req.Status) {
	case finance.StatusPaid, finance.StatusPending:
		e.Status = finance.PayStatus(req.Status)
	case "":
		e.Status = finance.StatusPending
	default:
		return errBadField("status must be paid or pending")
	}
	switch finance.EntryKind(req.Kind) {
	case finance.KindExpense, finance.KindRevenue:
		e.Kind = finance.EntryKind(req.Kind)
	case "":
		e.Kind = finance.KindExpense
	default:
		return errBadField("kind must be expense or revenue")
	}
	return nil
}

func applyPlotRequest(p *farm.Plot, req SavePlotRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errBadField("name is required")
	}
	area, err := decimal.NewFromString(req.AreaHa)
	if err != nil || area.IsNegative() {
		return errBadField("area_ha must be a non-negative decimal")
	}
	p.Name = strings.TrimSpace(req.Name)
	p.AreaHa = area
	p.Crop = req.Crop
	p.Notes = req.Notes
	return nil
}

func applyCycleRequest(c *farm.CropCycle, req SaveCycleRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errBadField("name is required")
	}
	if req.PlotID == "" {
		return errBadField("plot_id is required")
	}
	start, err := calendar.Parse(req.StartDate)
	if err != nil {
		return errBadField("start_date must be YYYY-MM-DD")
	}

	c.PlotID = farm.PlotID(req.PlotID)
	c.Name = strings.TrimSpace(req.Name)
	c.Window.Start = start
	if req.EndDate != "" {
		end, err := calendar.Parse(req.EndDate)
		if err != nil {
			return errBadField("end_date must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return errBadField("end_date precedes start_date")
		}
		c.Window.End = end
	} else {
		c.Window.End = calendar.Date{}
	}
	if req.Status != "" {
		switch farm.CycleStatus(req.Status) {
		case farm.CycleActive, farm.CycleFinished:
			c.Status = farm.CycleStatus(req.Status)
		default:
			return errBadField("status must be active or finished")
		}
	}
	c.Notes = req.Notes
	return nil
}

type errBadField string

func (e errBadField) Error() string { return string(e) }

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:     string(e.ID),
		Name:   e.Name,
		Role:   e.Role,
		Salary: e.Salary.String(),
		Status: string(e.Status),
		PlotID: string(e.PlotID),
		Notes:  e.Notes,
	}
	if !e.AdmissionDate.IsZero() {
		dto.AdmissionDate = e.AdmissionDate.String()
	}
	for _, rec := range e.History {
		dto.SalaryHistory = append(dto.SalaryHistory, SalaryRecordDTO{
			Amount:        rec.Amount.String(),
			EffectiveDate: rec.EffectiveDate.String(),
		})
	}
	return dto
}

func toPayEventDTOs(emp payroll.Employee, events []payroll.ReconciledEvent) []PayEventDTO {
	dtos := make([]PayEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = PayEventDTO{
			EmployeeID:    string(emp.ID),
			EmployeeName:  emp.Name,
			Kind:          string(ev.Kind),
			Reference:     ev.Reference,
			DueDate:       ev.DueDate.String(),
			Amount:        ev.Amount.String(),
			Detail:        ev.Detail,
			Status:        string(ev.Status),
			LedgerEntryID: string(ev.LedgerEntryID),
		}
	}
	return dtos
}

func toEntryDTO(e finance.Entry) EntryDTO {
	return EntryDTO{
		ID:          string(e.ID),
		Description: e.Description,
		Category:    e.Category,
		EventKey:    e.EventKey,
		Amount:      e.Amount.String(),
		Date:        e.Date.String(),
		Status:      string(e.Status),
		Kind:        string(e.Kind),
		PlotID:      string(e.PlotID),
		Notes:       e.Notes,
	}
}

func toPlotDTO(p farm.Plot) PlotDTO {
	return PlotDTO{
		ID:     string(p.ID),
		Name:   p.Name,
		AreaHa: p.AreaHa.String(),
		Crop:   p.Crop,
		Notes:  p.Notes,
	}
}

func toCycleDTO(c farm.CropCycle) CycleDTO {
	dto := CycleDTO{
		ID:        c.ID,
		PlotID:    string(c.PlotID),
		Name:      c.Name,
		StartDate: c.Window.Start.String(),
		Status:    string(c.Status),
		Notes:     c.Notes,
	}
	if !c.Window.End.IsZero() {
		dto.EndDate = c.Window.End.String()
	}
	return dto
}

func toPlotCostDTO(pc finance.PlotCost) PlotCostDTO {
	return PlotCostDTO{
		PlotID:        string(pc.Plot.ID),
		PlotName:      pc.Plot.Name,
		AreaHa:        pc.Plot.AreaHa.String(),
		Direct:        pc.Direct.String(),
		PayrollRateio: pc.PayrollRateio.String(),
		GeneralRateio: pc.GeneralRateio.String(),
		Total:         pc.Total.String(),
	}
}

// =============================================================================
// HTTP HELPERS
// =============================================================================

func dateQuery(r *http.Request, key string, fallback calendar.Date) (calendar.Date, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return calendar.Parse(v)
}

// windowQuery builds a reporting window from from/to query params. Missing
// "from" yields a zero-start window meaning "no window filter"; missing
// "to" leaves the window open-ended.
func windowQuery(r *http.Request) (calendar.Period, error) {
	var window calendar.Period
	var err error

	if from := r.URL.Query().Get("from"); from != "" {
		window.Start, err = calendar.Parse(from)
		if err != nil {
			return window, err
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		window.End, err = calendar.Parse(to)
		if err != nil {
			return window, err
		}
	}
	return window, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
