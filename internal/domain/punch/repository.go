package punch

import (
	"context"
	"time"
)

// PunchRepository defines data access methods for punch records.
type PunchRepository interface {
	// Create creates a new punch record
	Create(ctx context.Context, p Punch) (Punch, error)

	// ListByEmployeeAndWorkDay returns an employee's punches for one
	// work-day, ordered by captured_at ascending
	ListByEmployeeAndWorkDay(ctx context.Context, employeeID string, workDay time.Time) ([]Punch, error)

	// GetLastByEmployee returns the most recent punch of an employee
	// within a work-day, used for alternation and the cool-down check
	GetLastByEmployee(ctx context.Context, employeeID string, workDay time.Time) (*Punch, error)

	// ListByWorkDay returns all punches captured on a work-day across
	// employees, for reconciliation and reporting
	ListByWorkDay(ctx context.Context, workDay time.Time) ([]Punch, error)
}
