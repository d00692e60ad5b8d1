/*
scheduler.go - Scheduled payroll audit

PURPOSE:
  Periodically projects payroll events for every active employee,
  reconciles them against the ledger, and records a summary row. The
  history of runs gives the farm office a trail of how many obligations
  were overdue on each morning.

DESIGN:
  - robfig/cron drives the schedule (default: daily at 05:00)
  - Each run is pure read + one insert: project, reconcile, count, save
  - Failures are recorded in the run row, not just logged

USAGE:
  sched := NewAuditScheduler(store, rules, "0 5 * * *", log)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - handlers.go: ListPayrollRuns exposes the recorded runs
  - store/sqlite: payroll_runs table
*/
package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lavoura/farm-engine/calendar"
	"github.com/lavoura/farm-engine/payroll"
	"github.com/lavoura/farm-engine/store/sqlite"
)

// AuditScheduler runs the payroll reconciliation on a cron schedule and
// records each run.
type AuditScheduler struct {
	Store    *sqlite.Store
	Rules    payroll.Rules
	Schedule string

	cron *cron.Cron
	log  *zap.Logger
}

// NewAuditScheduler creates a scheduler. The schedule is a standard
// 5-field cron expression.
func NewAuditScheduler(store *sqlite.Store, rules payroll.Rules, schedule string, log *zap.Logger) *AuditScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if schedule == "" {
		schedule = "0 5 * * *"
	}
	return &AuditScheduler{
		Store:    store,
		Rules:    rules,
		Schedule: schedule,
		log:      log,
	}
}

// Start registers the cron job and begins the schedule. Returns an error
// when the cron expression does not parse.
func (s *AuditScheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("payroll audit scheduler started", zap.String("schedule", s.Schedule))
	return nil
}

// Stop halts the schedule, waiting for a running job to finish.
func (s *AuditScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info("payroll audit scheduler stopped")
	}
}

// RunOnce executes one audit pass: project and reconcile every active
// employee, then record the status counts.
func (s *AuditScheduler) RunOnce(ctx context.Context) sqlite.PayrollRun {
	run := sqlite.PayrollRun{
		ID:    uuid.NewString(),
		RunAt: time.Now().UTC(),
	}
	today := calendar.Today()

	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		run.Error = err.Error()
		s.record(ctx, run)
		return run
	}
	entries, err := s.Store.ListEntries(ctx)
	if err != nil {
		run.Error = err.Error()
		s.record(ctx, run)
		return run
	}

	projector := payroll.NewProjector(s.Rules)
	for _, emp := range employees {
		if emp.Status != payroll.StatusActive {
			continue
		}
		run.Employees++
		events := projector.Project(emp, today)
		for _, ev := range payroll.Reconcile(events, entries, today) {
			switch ev.Status {
			case payroll.StatusPaid:
				run.Paid++
			case payroll.StatusPendingInLedger:
				run.Pending++
			case payroll.StatusNotYetPosted:
				run.Overdue++
			case payroll.StatusProvisioned:
				run.Provisioned++
			}
		}
	}

	s.record(ctx, run)
	s.log.Info("payroll audit run finished",
		zap.Int("employees", run.Employees),
		zap.Int("paid", run.Paid),
		zap.Int("pending", run.Pending),
		zap.Int("overdue", run.Overdue),
		zap.Int("provisioned", run.Provisioned))
	return run
}

func (s *AuditScheduler) record(ctx context.Context, run sqlite.PayrollRun) {
	if err := s.Store.SavePayrollRun(ctx, run); err != nil {
		s.log.Error("failed to record payroll run", zap.Error(err))
	}
}
