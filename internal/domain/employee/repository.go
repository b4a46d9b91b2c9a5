package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByCode retrieves an employee by badge code
	GetByCode(ctx context.Context, code string) (Employee, error)

	// ListActive returns all active employees, used by the
	// reconciliation cron
	ListActive(ctx context.Context) ([]Employee, error)
}
