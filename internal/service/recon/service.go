package recon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/sse"
)

// AnomalyTopic is the SSE topic review dashboards subscribe to.
const AnomalyTopic = "anomalies"

// Service runs the engine against stored punches and shifts.
type Service interface {
	// Summary evaluates an employee's work-day without persisting
	// anything; used by the work-day view
	Summary(ctx context.Context, employeeID string, workDay time.Time) (Result, error)

	// Reconcile evaluates and persists the proposals that do not
	// already exist for (employee, work-day, type), publishing each
	// new one to the anomaly feed. Returns the evaluation and the
	// number of anomalies actually created.
	Reconcile(ctx context.Context, employeeID string, workDay time.Time) (Result, int, error)
}

// Transactor runs fn atomically. The postgres wiring binds it to a
// database transaction; tests pass fn straight through.
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

type reconService struct {
	engine      *Engine
	punchRepo   punch.PunchRepository
	shiftSvc    shift.ShiftService
	anomalyRepo anomaly.AnomalyRepository
	hub         *sse.Hub
	transact    Transactor
}

func NewReconService(
	engine *Engine,
	punchRepo punch.PunchRepository,
	shiftSvc shift.ShiftService,
	anomalyRepo anomaly.AnomalyRepository,
	hub *sse.Hub,
	transact Transactor,
) Service {
	return &reconService{
		engine:      engine,
		punchRepo:   punchRepo,
		shiftSvc:    shiftSvc,
		anomalyRepo: anomalyRepo,
		hub:         hub,
		transact:    transact,
	}
}

func (s *reconService) evaluate(ctx context.Context, employeeID string, workDay time.Time) (Result, error) {
	punches, err := s.punchRepo.ListByEmployeeAndWorkDay(ctx, employeeID, workDay)
	if err != nil {
		return Result{}, fmt.Errorf("load punches: %w", err)
	}

	planned, err := s.shiftSvc.Match(ctx, employeeID, workDay)
	if err != nil {
		return Result{}, fmt.Errorf("match shift: %w", err)
	}

	result := s.engine.Evaluate(punches, planned, time.Now())
	if result.EmployeeID == "" {
		result.EmployeeID = employeeID
		result.WorkDay = workDay
	}
	return result, nil
}

// Summary implements Service.
func (s *reconService) Summary(ctx context.Context, employeeID string, workDay time.Time) (Result, error) {
	return s.evaluate(ctx, employeeID, workDay)
}

// Reconcile implements Service.
func (s *reconService) Reconcile(ctx context.Context, employeeID string, workDay time.Time) (Result, int, error) {
	result, err := s.evaluate(ctx, employeeID, workDay)
	if err != nil {
		return Result{}, 0, err
	}

	// The dedupe checks and inserts commit as one unit; the feed only
	// sees anomalies that made it to storage.
	var stored []anomaly.Anomaly
	err = s.transact(ctx, func(ctx context.Context) error {
		for _, proposal := range result.Proposals {
			exists, err := s.anomalyRepo.ExistsFor(ctx, proposal.EmployeeID, proposal.WorkDay, proposal.Type)
			if err != nil {
				return fmt.Errorf("check anomaly dedupe: %w", err)
			}
			if exists {
				continue
			}

			a, err := s.anomalyRepo.Create(ctx, proposal)
			if err != nil {
				return fmt.Errorf("persist anomaly: %w", err)
			}
			stored = append(stored, a)
		}
		return nil
	})
	if err != nil {
		return result, 0, err
	}

	for _, a := range stored {
		s.hub.Publish(AnomalyTopic, sse.Event{
			Topic: AnomalyTopic,
			Event: "anomaly.proposed",
			Data:  anomaly.ToResponse(a),
		})
	}

	if len(stored) > 0 {
		slog.Info("Reconciliation proposed anomalies",
			"employee_id", employeeID,
			"work_day", workDay.Format("2006-01-02"),
			"created", len(stored))
	}

	return result, len(stored), nil
}
