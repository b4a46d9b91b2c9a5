package punch

import (
	"context"
)

// PunchService defines business logic for punch submission and listing
type PunchService interface {
	// Submit records a badge scan: decodes the identity token, applies
	// the server-side cool-down, infers arrival/departure by
	// alternation and stores the punch under its work-day
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)

	// ListWorkDay returns the punches of an employee for one work-day
	ListWorkDay(ctx context.Context, filter WorkDayFilter) ([]PunchResponse, error)
}
