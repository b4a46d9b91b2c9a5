package anomaly

import (
	"context"
	"time"
)

// AnomalyRepository defines data access methods for anomaly records.
type AnomalyRepository interface {
	// Create persists a proposed anomaly
	Create(ctx context.Context, a Anomaly) (Anomaly, error)

	// ExistsFor reports whether an anomaly of this type already exists
	// for the employee and work-day, regardless of status. Used to
	// deduplicate engine proposals.
	ExistsFor(ctx context.Context, employeeID string, workDay time.Time, anomalyType Type) (bool, error)

	// GetByID retrieves one anomaly
	GetByID(ctx context.Context, id string) (Anomaly, error)

	// List retrieves anomalies with filters and pagination
	List(ctx context.Context, filter ListFilter) ([]Anomaly, int64, error)

	// Update stores a review decision
	Update(ctx context.Context, a Anomaly) error
}
