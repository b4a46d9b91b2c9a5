package anomaly

import "errors"

// Anomaly domain errors
var (
	ErrAnomalyNotFound   = errors.New("anomaly record not found")
	ErrAlreadyReviewed   = errors.New("anomaly has already been reviewed")
	ErrInvalidTransition = errors.New("anomaly status transition not allowed")
)
