package anomaly

import (
	"context"
)

// AnomalyService defines the review workflow. The reconciliation
// engine only proposes; every status change goes through here.
type AnomalyService interface {
	// List retrieves anomalies for the review dashboard
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Get retrieves a single anomaly by ID
	Get(ctx context.Context, id string) (AnomalyResponse, error)

	// Validate confirms an anomaly (en_attente -> validee)
	Validate(ctx context.Context, req ReviewRequest) (AnomalyResponse, error)

	// Refuse dismisses an anomaly (en_attente -> refusee)
	Refuse(ctx context.Context, req ReviewRequest) (AnomalyResponse, error)

	// Correct amends the measured discrepancy (en_attente -> corrigee)
	Correct(ctx context.Context, req CorrectRequest) (AnomalyResponse, error)
}
