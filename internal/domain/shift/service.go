package shift

import (
	"context"
	"time"
)

// ShiftService defines the shift matcher: lookup plus the pure
// decomposition and end-of-shift helpers the reconciliation engine
// relies on.
type ShiftService interface {
	// Match returns the employee's planned shift for the work-day, or
	// (nil, nil) when none is planned
	Match(ctx context.Context, employeeID string, workDay time.Time) (*PlannedShift, error)

	// Decompose splits a shift's segments into official and extra
	// worked-time totals, excluding breaks
	Decompose(s PlannedShift) Decomposition

	// Finished reports whether the shift is over at the given instant
	Finished(s PlannedShift, now time.Time) bool
}
