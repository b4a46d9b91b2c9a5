package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access methods for planned shifts.
type ShiftRepository interface {
	// GetByEmployeeAndWorkDay retrieves the planned shift of an
	// employee for one work-day, with its segments
	GetByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) (PlannedShift, error)

	// ListByWorkDay returns every planned shift for a work-day, used
	// by the reconciliation cron
	ListByWorkDay(ctx context.Context, workDay time.Time) ([]PlannedShift, error)
}
