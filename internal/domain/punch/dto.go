package punch

import (
	"time"

	"github.com/chronopointe/pointage-go/internal/pkg/validator"
)

// SubmitRequest is what the kiosk (or a retrying sync agent) posts.
// CapturedAt is the scan instant as observed by the kiosk, never the
// submission instant.
type SubmitRequest struct {
	BadgeToken string `json:"badge_token"`
	CapturedAt string `json:"captured_at"`
	KioskID    string `json:"kiosk_id"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BadgeToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_token",
			Message: "badge_token is required",
		})
	} else if !validator.IsTokenShaped(r.BadgeToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "badge_token",
			Message: "badge_token is not a well-formed token",
		})
	}

	if validator.IsEmpty(r.CapturedAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "captured_at",
			Message: "captured_at is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.CapturedAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "captured_at",
			Message: "captured_at must be an ISO8601 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Type         Type      `json:"type"`
	CapturedAt   time.Time `json:"captured_at"`
	WorkDay      string    `json:"work_day"`
}

// WorkDayFilter selects punches of one employee over one work-day.
type WorkDayFilter struct {
	EmployeeID string
	WorkDay    time.Time
}

type PunchResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	Type         Type      `json:"type"`
	CapturedAt   time.Time `json:"captured_at"`
	WorkDay      string    `json:"work_day"`
	Source       Source    `json:"source"`
	KioskID      *string   `json:"kiosk_id,omitempty"`
}

func ToResponse(p Punch) PunchResponse {
	return PunchResponse{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		Type:         p.Type,
		CapturedAt:   p.CapturedAt,
		WorkDay:      p.WorkDay.Format("2006-01-02"),
		Source:       p.Source,
		KioskID:      p.KioskID,
	}
}
