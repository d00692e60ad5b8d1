/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY AND DATES:
  Amounts travel as decimal strings ("3000.00"), dates as ISO "2006-01-02".
  Parsing happens in handlers; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll: the domain types these mirror
*/
package api

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Role          string            `json:"role,omitempty"`
	Salary        string            `json:"salary"`
	AdmissionDate string            `json:"admission_date,omitempty"`
	Status        string            `json:"status"`
	PlotID        string            `json:"plot_id,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	SalaryHistory []SalaryRecordDTO `json:"salary_history,omitempty"`
}

// SalaryRecordDTO is one point in an employee's salary history.
type SalaryRecordDTO struct {
	Amount        string `json:"amount"`
	EffectiveDate string `json:"effective_date"`
}

// SaveEmployeeRequest creates or updates an employee.
type SaveEmployeeRequest struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Salary        string `json:"salary"`
	AdmissionDate string `json:"admission_date"`
	Status        string `json:"status"`
	PlotID        string `json:"plot_id"`
	Notes         string `json:"notes"`
}

// RaiseRequest applies a salary raise effective from a given month.
type RaiseRequest struct {
	Amount        string `json:"amount"`
	EffectiveDate string `json:"effective_date"`
}

// CorrectionRequest fixes a mistyped salary or admission date. Both fields
// are optional; only the ones present are corrected.
type CorrectionRequest struct {
	Salary        string `json:"salary,omitempty"`
	AdmissionDate string `json:"admission_date,omitempty"`
}

// =============================================================================
// PAYROLL TYPES
// =============================================================================

// PayEventDTO is one projected payroll obligation with its reconciliation
// status attached.
type PayEventDTO struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	Kind          string `json:"kind"`
	Reference     string `json:"reference"`
	DueDate       string `json:"due_date"`
	Amount        string `json:"amount"`
	Detail        string `json:"detail,omitempty"`
	Status        string `json:"status"`
	LedgerEntryID string `json:"ledger_entry_id,omitempty"`
}

// PostEventRequest materializes one projected event as a ledger entry.
type PostEventRequest struct {
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	Reference  string `json:"reference"`
	Paid       bool   `json:"paid"`
}

// PayrollRunDTO is one recorded reconciliation audit run.
type PayrollRunDTO struct {
	ID          string `json:"id"`
	RunAt       string `json:"run_at"`
	Employees   int    `json:"employees"`
	Paid        int    `json:"paid"`
	Pending     int    `json:"pending"`
	Overdue     int    `json:"overdue"`
	Provisioned int    `json:"provisioned"`
	Error       string `json:"error,omitempty"`
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// EntryDTO represents a financial ledger entry in API responses.
type EntryDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	EventKey    string `json:"event_key,omitempty"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Kind        string `json:"kind"`
	PlotID      string `json:"plot_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// SaveEntryRequest creates or updates a ledger entry.
type SaveEntryRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Kind        string `json:"kind"`
	PlotID      string `json:"plot_id"`
	Notes       string `json:"notes"`
}

// ImportLegacyResponse summarizes a legacy-tag import pass.
type ImportLegacyResponse struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
}

// =============================================================================
// FARM TYPES
// =============================================================================

// PlotDTO represents a plot in API responses.
type PlotDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	AreaHa string `json:"area_ha"`
	Crop   string `json:"crop,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// SavePlotRequest creates or updates a plot.
type SavePlotRequest struct {
	Name   string `json:"name"`
	AreaHa string `json:"area_ha"`
	Crop   string `json:"crop"`
	Notes  string `json:"notes"`
}

// CycleDTO represents a crop cycle in API responses.
type CycleDTO struct {
	ID        string `json:"id"`
	PlotID    string `json:"plot_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

// SaveCycleRequest creates or updates a crop cycle.
type SaveCycleRequest struct {
	PlotID    string `json:"plot_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// PlotCostDTO is one plot's line in the cost report.
type PlotCostDTO struct {
	PlotID        string `json:"plot_id"`
	PlotName      string `json:"plot_name"`
	AreaHa        string `json:"area_ha"`
	Direct        string `json:"direct"`
	PayrollRateio string `json:"payroll_rateio"`
	GeneralRateio string `json:"general_rateio"`
	Total         string `json:"total"`
}

// CostReportDTO is the per-plot cost breakdown for a window.
type CostReportDTO struct {
	From  string        `json:"from"`
	To    string        `json:"to,omitempty"`
	Plots []PlotCostDTO `json:"plots"`
}

// SummaryDTO is the dashboard cash summary for a window.
type SummaryDTO struct {
	Revenue        string `json:"revenue"`
	Expense        string `json:"expense"`
	PendingRevenue string `json:"pending_revenue"`
	PendingExpense string `json:"pending_expense"`
	Net            string `json:"net"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
