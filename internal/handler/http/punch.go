package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
	"github.com/chronopointe/pointage-go/internal/service/recon"
)

type PunchHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListWorkDay(w http.ResponseWriter, r *http.Request)
	WorkDaySummary(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	punchService punch.PunchService
	reconService recon.Service
}

func NewPunchHandler(punchService punch.PunchService, reconService recon.Service) PunchHandler {
	return &punchHandlerImpl{
		punchService: punchService,
		reconService: reconService,
	}
}

// Submit implements PunchHandler. This is the endpoint the kiosk and
// its sync agent hit; a duplicate within the cool-down maps to 409.
func (h *punchHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req punch.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.CapturedAt == "" {
		// The kiosk always timestamps its scans; the fallback covers
		// direct callers that do not.
		req.CapturedAt = time.Now().Format(time.RFC3339)
	}

	resp, err := h.punchService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", resp)
}

// ListWorkDay implements PunchHandler.
func (h *punchHandlerImpl) ListWorkDay(w http.ResponseWriter, r *http.Request) {
	employeeID, day, ok := workDayQuery(w, r)
	if !ok {
		return
	}

	punches, err := h.punchService.ListWorkDay(r.Context(), punch.WorkDayFilter{
		EmployeeID: employeeID,
		WorkDay:    day,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, punches)
}

// WorkDaySummary implements PunchHandler. Reconciliation is evaluated
// on read; nothing is persisted here.
func (h *punchHandlerImpl) WorkDaySummary(w http.ResponseWriter, r *http.Request) {
	employeeID, day, ok := workDayQuery(w, r)
	if !ok {
		return
	}

	result, err := h.reconService.Summary(r.Context(), employeeID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toSummaryResponse(result))
}

func workDayQuery(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return "", time.Time{}, false
	}

	dayStr := r.URL.Query().Get("work_day")
	if dayStr == "" {
		return employeeID, workday.Of(time.Now()), true
	}

	day, ok := validator.IsValidDate(dayStr)
	if !ok {
		response.BadRequest(w, "work_day must be YYYY-MM-DD", nil)
		return "", time.Time{}, false
	}
	return employeeID, day, true
}

type sessionResponse struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
	Ongoing bool      `json:"ongoing"`
}

type summaryResponse struct {
	EmployeeID         string            `json:"employee_id"`
	WorkDay            string            `json:"work_day"`
	Sessions           []sessionResponse `json:"sessions"`
	TotalWorkedMinutes int               `json:"total_worked_minutes"`
	TargetMinutes      int               `json:"target_minutes"`
	VarianceMinutes    int               `json:"variance_minutes"`
	MissingMinutes     int               `json:"missing_minutes"`
	OvertimeMinutes    int               `json:"overtime_minutes"`
	Ongoing            bool              `json:"ongoing"`
	ShiftFinished      bool              `json:"shift_finished"`
	HasPlan            bool              `json:"has_plan"`
	AllExtra           bool              `json:"all_extra"`
	NeedsShiftReview   bool              `json:"needs_shift_review"`
	ProposedAnomalies  int               `json:"proposed_anomalies"`
}

func toSummaryResponse(result recon.Result) summaryResponse {
	sessions := make([]sessionResponse, 0, len(result.Sessions))
	for _, s := range result.Sessions {
		sessions = append(sessions, sessionResponse{
			Start:   s.Start,
			End:     s.End,
			Minutes: s.Minutes,
			Ongoing: s.Ongoing,
		})
	}

	return summaryResponse{
		EmployeeID:         result.EmployeeID,
		WorkDay:            result.WorkDay.Format("2006-01-02"),
		Sessions:           sessions,
		TotalWorkedMinutes: result.TotalWorkedMinutes,
		TargetMinutes:      result.TargetMinutes,
		VarianceMinutes:    result.VarianceMinutes,
		MissingMinutes:     result.MissingMinutes,
		OvertimeMinutes:    result.OvertimeMinutes,
		Ongoing:            result.Ongoing,
		ShiftFinished:      result.ShiftFinished,
		HasPlan:            result.HasPlan,
		AllExtra:           result.AllExtra,
		NeedsShiftReview:   result.NeedsShiftReview,
		ProposedAnomalies:  len(result.Proposals),
	}
}
