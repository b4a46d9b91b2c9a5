package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (
			employee_id, type, captured_at, work_day, source, kiosk_id
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		p.EmployeeID,
		p.Type,
		p.CapturedAt,
		p.WorkDay,
		p.Source,
		p.KioskID,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return punch.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return p, nil
}

// ListByEmployeeAndWorkDay implements punch.PunchRepository.
func (r *punchRepository) ListByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.type, p.captured_at, p.work_day, p.source, p.kiosk_id, p.created_at
		FROM punches p
		WHERE p.employee_id = $1
		  AND p.work_day = $2
		ORDER BY p.captured_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, workDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

// GetLastByEmployee implements punch.PunchRepository.
func (r *punchRepository) GetLastByEmployee(ctx context.Context, employeeID string, workDay time.Time) (*punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.type, p.captured_at, p.work_day, p.source, p.kiosk_id, p.created_at
		FROM punches p
		WHERE p.employee_id = $1
		  AND p.work_day = $2
		ORDER BY p.captured_at DESC
		LIMIT 1
	`

	var p punch.Punch
	err := q.QueryRow(ctx, query, employeeID, workDay).Scan(
		&p.ID, &p.EmployeeID, &p.Type, &p.CapturedAt, &p.WorkDay, &p.Source, &p.KioskID, &p.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no punch yet on this work-day
		}
		return nil, fmt.Errorf("failed to get last punch: %w", err)
	}

	return &p, nil
}

// ListByWorkDay implements punch.PunchRepository.
func (r *punchRepository) ListByWorkDay(ctx context.Context, workDay time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.type, p.captured_at, p.work_day, p.source, p.kiosk_id, p.created_at
		FROM punches p
		WHERE p.work_day = $1
		ORDER BY p.employee_id, p.captured_at ASC
	`

	rows, err := q.Query(ctx, query, workDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches for work-day: %w", err)
	}
	defer rows.Close()

	return scanPunches(rows)
}

func scanPunches(rows pgx.Rows) ([]punch.Punch, error) {
	var punches []punch.Punch
	for rows.Next() {
		var p punch.Punch
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.Type, &p.CapturedAt, &p.WorkDay, &p.Source, &p.KioskID, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}
	return punches, nil
}
