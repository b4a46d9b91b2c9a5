package response

import (
	"errors"
	"net/http"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Punch domain errors. The duplicate conflict is load-bearing: the
	// kiosk sync agent reads a 409 as "already recorded, move on".
	case errors.Is(err, punch.ErrDuplicatePunch):
		Conflict(w, "Punch already recorded within the cool-down window")
	case errors.Is(err, punch.ErrInvalidBadgeToken):
		Unauthorized(w, "Badge token is invalid or expired")
	case errors.Is(err, punch.ErrEmployeeInactive):
		Forbidden(w, "Badge is deactivated")
	case errors.Is(err, punch.ErrTimestampInFuture),
		errors.Is(err, punch.ErrTimestampTooOld):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidCredentials):
		Unauthorized(w, "Employee code or PIN is incorrect")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "No planned shift for this work-day")

	// Anomaly domain errors
	case errors.Is(err, anomaly.ErrAnomalyNotFound):
		NotFound(w, "Anomaly not found")
	case errors.Is(err, anomaly.ErrAlreadyReviewed),
		errors.Is(err, anomaly.ErrInvalidTransition):
		Conflict(w, "Anomaly has already been reviewed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
