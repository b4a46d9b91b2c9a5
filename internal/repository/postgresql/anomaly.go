package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.AnomalyRepository {
	return &anomalyRepository{db: db}
}

// Create implements anomaly.AnomalyRepository.
func (r *anomalyRepository) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO anomalies (
			employee_id, work_day, type, severity, status,
			ecart_minutes, heure_prevue, heure_reelle, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID,
		a.WorkDay,
		a.Type,
		a.Severity,
		a.Status,
		a.Details.EcartMinutes,
		a.Details.HeurePrevue,
		a.Details.HeureReelle,
		a.DetectedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("failed to create anomaly: %w", err)
	}

	return a, nil
}

// ExistsFor implements anomaly.AnomalyRepository.
func (r *anomalyRepository) ExistsFor(ctx context.Context, employeeID string, workDay time.Time, anomalyType anomaly.Type) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM anomalies
			WHERE employee_id = $1
			  AND work_day = $2
			  AND type = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, workDay, anomalyType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check anomaly existence: %w", err)
	}

	return exists, nil
}

// GetByID implements anomaly.AnomalyRepository.
func (r *anomalyRepository) GetByID(ctx context.Context, id string) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.work_day, a.type, a.severity, a.status,
			   a.ecart_minutes, a.heure_prevue, a.heure_reelle, a.detected_at,
			   a.reviewed_by, a.reviewed_at, a.review_note,
			   a.created_at, a.updated_at,
			   e.first_name || ' ' || e.last_name AS employee_name,
			   e.code AS employee_code
		FROM anomalies a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var a anomaly.Anomaly
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.EmployeeID, &a.WorkDay, &a.Type, &a.Severity, &a.Status,
		&a.Details.EcartMinutes, &a.Details.HeurePrevue, &a.Details.HeureReelle, &a.DetectedAt,
		&a.ReviewedBy, &a.ReviewedAt, &a.ReviewNote,
		&a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return anomaly.Anomaly{}, fmt.Errorf("anomaly lookup: %w", anomaly.ErrAnomalyNotFound)
		}
		return anomaly.Anomaly{}, fmt.Errorf("failed to get anomaly: %w", err)
	}

	return a, nil
}

// List implements anomaly.AnomalyRepository.
func (r *anomalyRepository) List(ctx context.Context, filter anomaly.ListFilter) ([]anomaly.Anomaly, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	addCondition := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.EmployeeID != "" {
		addCondition("a.employee_id = $%d", filter.EmployeeID)
	}
	if filter.WorkDay != nil {
		addCondition("a.work_day = $%d", *filter.WorkDay)
	}
	if filter.Type != "" {
		addCondition("a.type = $%d", filter.Type)
	}
	if filter.Severity != "" {
		addCondition("a.severity = $%d", filter.Severity)
	}
	if filter.Status != "" {
		addCondition("a.status = $%d", filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM anomalies a WHERE %s`, where)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count anomalies: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.work_day, a.type, a.severity, a.status,
			   a.ecart_minutes, a.heure_prevue, a.heure_reelle, a.detected_at,
			   a.reviewed_by, a.reviewed_at, a.review_note,
			   a.created_at, a.updated_at,
			   e.first_name || ' ' || e.last_name AS employee_name,
			   e.code AS employee_code
		FROM anomalies a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.detected_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		var a anomaly.Anomaly
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.WorkDay, &a.Type, &a.Severity, &a.Status,
			&a.Details.EcartMinutes, &a.Details.HeurePrevue, &a.Details.HeureReelle, &a.DetectedAt,
			&a.ReviewedBy, &a.ReviewedAt, &a.ReviewNote,
			&a.CreatedAt, &a.UpdatedAt,
			&a.EmployeeName, &a.EmployeeCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate anomalies: %w", err)
	}

	return anomalies, total, nil
}

// Update implements anomaly.AnomalyRepository.
func (r *anomalyRepository) Update(ctx context.Context, a anomaly.Anomaly) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE anomalies
		SET status = $1,
			severity = $2,
			ecart_minutes = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			review_note = $6,
			updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		a.Status,
		a.Severity,
		a.Details.EcartMinutes,
		a.ReviewedBy,
		a.ReviewedAt,
		a.ReviewNote,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update anomaly: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return anomaly.ErrAnomalyNotFound
	}

	return nil
}
