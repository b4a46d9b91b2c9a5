package punch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
)

// CoolDown is the server-side anti-duplicate window. A second scan of
// the same employee inside it is a conflict, which the kiosk treats as
// confirmation rather than an error.
const CoolDown = 30 * time.Second

// Timestamp sanity bounds. Offline scans arrive late by design, so the
// past window is generous; the future window only absorbs clock skew.
const (
	MaxFutureDrift = 1 * time.Hour
	MaxPastAge     = 7 * 24 * time.Hour
)

type punchService struct {
	punchRepo    punch.PunchRepository
	employeeRepo employee.EmployeeRepository
	jwtSvc       jwt.Service
}

func NewPunchService(
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	jwtSvc jwt.Service,
) punch.PunchService {
	return &punchService{
		punchRepo:    punchRepo,
		employeeRepo: employeeRepo,
		jwtSvc:       jwtSvc,
	}
}

// Submit implements punch.PunchService.
func (s *punchService) Submit(ctx context.Context, req punch.SubmitRequest) (punch.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.SubmitResponse{}, err
	}

	claims, err := s.jwtSvc.DecodeBadgeToken(req.BadgeToken)
	if err != nil {
		return punch.SubmitResponse{}, fmt.Errorf("decode badge token: %w", punch.ErrInvalidBadgeToken)
	}
	if s.jwtSvc.IsTokenRevoked(req.BadgeToken) {
		return punch.SubmitResponse{}, fmt.Errorf("revoked badge token: %w", punch.ErrInvalidBadgeToken)
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return punch.SubmitResponse{}, fmt.Errorf("resolve badge holder: %w", err)
	}
	if !emp.Active {
		return punch.SubmitResponse{}, punch.ErrEmployeeInactive
	}

	capturedAt, _ := validator.IsValidDateTime(req.CapturedAt)
	now := time.Now()
	if capturedAt.After(now.Add(MaxFutureDrift)) {
		return punch.SubmitResponse{}, punch.ErrTimestampInFuture
	}
	if capturedAt.Before(now.Add(-MaxPastAge)) {
		return punch.SubmitResponse{}, punch.ErrTimestampTooOld
	}

	day := workday.Of(capturedAt)

	last, err := s.punchRepo.GetLastByEmployee(ctx, emp.ID, day)
	if err != nil {
		return punch.SubmitResponse{}, fmt.Errorf("load last punch: %w", err)
	}

	punchType := punch.TypeArrivee
	if last != nil {
		delta := capturedAt.Sub(last.CapturedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta < CoolDown {
			return punch.SubmitResponse{}, punch.ErrDuplicatePunch
		}
		// Alternation: each punch flips the direction of the previous
		// one within the work-day.
		if last.Type == punch.TypeArrivee {
			punchType = punch.TypeDepart
		}
	}

	var kioskID *string
	if req.KioskID != "" {
		kioskID = &req.KioskID
	}

	created, err := s.punchRepo.Create(ctx, punch.Punch{
		EmployeeID: emp.ID,
		Type:       punchType,
		CapturedAt: capturedAt,
		WorkDay:    day,
		Source:     punch.SourceKiosk,
		KioskID:    kioskID,
	})
	if err != nil {
		return punch.SubmitResponse{}, fmt.Errorf("store punch: %w", err)
	}

	slog.Info("Punch recorded",
		"employee_id", emp.ID,
		"type", punchType,
		"work_day", day.Format("2006-01-02"),
		"captured_at", capturedAt)

	return punch.SubmitResponse{
		ID:           created.ID,
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Type:         created.Type,
		CapturedAt:   created.CapturedAt,
		WorkDay:      day.Format("2006-01-02"),
	}, nil
}

// ListWorkDay implements punch.PunchService.
func (s *punchService) ListWorkDay(ctx context.Context, filter punch.WorkDayFilter) ([]punch.PunchResponse, error) {
	punches, err := s.punchRepo.ListByEmployeeAndWorkDay(ctx, filter.EmployeeID, filter.WorkDay)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}

	responses := make([]punch.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, punch.ToResponse(p))
	}
	return responses, nil
}
