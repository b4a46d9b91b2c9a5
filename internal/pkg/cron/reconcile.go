package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
	"github.com/chronopointe/pointage-go/internal/service/recon"
)

type ReconcileJobs struct {
	employeeRepo employee.EmployeeRepository
	reconSvc     recon.Service
}

func NewReconcileJobs(employeeRepo employee.EmployeeRepository, reconSvc recon.Service) *ReconcileJobs {
	return &ReconcileJobs{
		employeeRepo: employeeRepo,
		reconSvc:     reconSvc,
	}
}

func (j *ReconcileJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_closed_work_day", 1*time.Hour, j.ReconcileClosedWorkDay)
}

// ReconcileClosedWorkDay runs the engine over the most recently closed
// work-day for every active employee. Dedupe in the anomaly repository
// makes repeated runs harmless.
func (j *ReconcileJobs) ReconcileClosedWorkDay(ctx context.Context) error {
	closedDay := workday.Of(time.Now()).AddDate(0, 0, -1)

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	totalCreated := 0
	for _, emp := range employees {
		_, created, err := j.reconSvc.Reconcile(ctx, emp.ID, closedDay)
		if err != nil {
			slog.Error("Cron: Reconciliation failed",
				"employee_id", emp.ID,
				"work_day", closedDay.Format("2006-01-02"),
				"error", err)
			continue
		}
		totalCreated += created
	}

	slog.Info("Cron: Reconciled closed work-day",
		"work_day", closedDay.Format("2006-01-02"),
		"employees", len(employees),
		"anomalies_created", totalCreated)
	return nil
}
