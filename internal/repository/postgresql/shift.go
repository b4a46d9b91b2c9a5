package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetByEmployeeAndWorkDay implements shift.ShiftRepository.
func (r *shiftRepository) GetByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) (shift.PlannedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_day, kind, created_at, updated_at
		FROM planned_shifts
		WHERE employee_id = $1
		  AND work_day = $2
		LIMIT 1
	`

	var s shift.PlannedShift
	err := q.QueryRow(ctx, query, employeeID, workDay).Scan(
		&s.ID, &s.EmployeeID, &s.WorkDay, &s.Kind, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.PlannedShift{}, fmt.Errorf("planned shift lookup: %w", shift.ErrShiftNotFound)
		}
		return shift.PlannedShift{}, fmt.Errorf("failed to get planned shift: %w", err)
	}

	segments, err := r.listSegments(ctx, s.ID)
	if err != nil {
		return shift.PlannedShift{}, err
	}
	s.Segments = segments

	return s, nil
}

// ListByWorkDay implements shift.ShiftRepository.
func (r *shiftRepository) ListByWorkDay(ctx context.Context, workDay time.Time) ([]shift.PlannedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_day, kind, created_at, updated_at
		FROM planned_shifts
		WHERE work_day = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, workDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.PlannedShift
	for rows.Next() {
		var s shift.PlannedShift
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.WorkDay, &s.Kind, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan planned shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planned shifts: %w", err)
	}

	for i := range shifts {
		segments, err := r.listSegments(ctx, shifts[i].ID)
		if err != nil {
			return nil, err
		}
		shifts[i].Segments = segments
	}

	return shifts, nil
}

func (r *shiftRepository) listSegments(ctx context.Context, shiftID string) ([]shift.Segment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT start_clock, end_clock, kind, is_extra
		FROM shift_segments
		WHERE shift_id = $1
		ORDER BY start_clock ASC
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift segments: %w", err)
	}
	defer rows.Close()

	var segments []shift.Segment
	for rows.Next() {
		var seg shift.Segment
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Kind, &seg.IsExtra); err != nil {
			return nil, fmt.Errorf("failed to scan shift segment: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift segments: %w", err)
	}

	return segments, nil
}
