package anomaly

import (
	"time"

	"github.com/chronopointe/pointage-go/internal/pkg/validator"
)

// ListFilter narrows the anomaly listing for the review dashboard.
type ListFilter struct {
	EmployeeID string
	WorkDay    *time.Time
	Type       string
	Severity   string
	Status     string
	Page       int
	PerPage    int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 25
	}
}

type ReviewRequest struct {
	AnomalyID  string `json:"-"`
	ReviewerID string `json:"-"`
	Note       string `json:"note"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AnomalyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CorrectRequest fixes an anomaly's measured discrepancy alongside the
// status change.
type CorrectRequest struct {
	AnomalyID    string `json:"-"`
	ReviewerID   string `json:"-"`
	Note         string `json:"note"`
	EcartMinutes *int   `json:"ecart_minutes"`
}

func (r *CorrectRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AnomalyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "a correction note is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AnomalyResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	WorkDay      string     `json:"work_day"`
	Type         Type       `json:"type"`
	Severity     Severity   `json:"severity"`
	Status       Status     `json:"status"`
	Details      Details    `json:"details"`
	DetectedAt   time.Time  `json:"detected_at"`
	ReviewedBy   *string    `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote   *string    `json:"review_note,omitempty"`
}

type ListResponse struct {
	Anomalies []AnomalyResponse `json:"anomalies"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PerPage   int               `json:"per_page"`
}

func ToResponse(a Anomaly) AnomalyResponse {
	return AnomalyResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		WorkDay:      a.WorkDay.Format("2006-01-02"),
		Type:         a.Type,
		Severity:     a.Severity,
		Status:       a.Status,
		Details:      a.Details,
		DetectedAt:   a.DetectedAt,
		ReviewedBy:   a.ReviewedBy,
		ReviewedAt:   a.ReviewedAt,
		ReviewNote:   a.ReviewNote,
	}
}
