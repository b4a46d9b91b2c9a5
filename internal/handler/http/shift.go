package http

import (
	"net/http"

	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/handler/http/response"
)

type ShiftHandler interface {
	GetPlanned(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

type segmentResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Kind    string `json:"kind"`
	IsExtra bool   `json:"is_extra"`
}

type plannedShiftResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	WorkDay    string            `json:"work_day"`
	Kind       string            `json:"kind"`
	Segments   []segmentResponse `json:"segments"`
}

// GetPlanned implements ShiftHandler. A work-day without a plan is a
// normal answer, not an error; the body carries null data.
func (h *shiftHandlerImpl) GetPlanned(w http.ResponseWriter, r *http.Request) {
	employeeID, day, ok := workDayQuery(w, r)
	if !ok {
		return
	}

	planned, err := h.shiftService.Match(r.Context(), employeeID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if planned == nil {
		response.Success(w, nil)
		return
	}

	segments := make([]segmentResponse, 0, len(planned.Segments))
	for _, seg := range planned.Segments {
		segments = append(segments, segmentResponse{
			Start:   seg.Start,
			End:     seg.End,
			Kind:    string(seg.Kind),
			IsExtra: seg.IsExtra,
		})
	}

	response.Success(w, plannedShiftResponse{
		ID:         planned.ID,
		EmployeeID: planned.EmployeeID,
		WorkDay:    planned.WorkDay.Format("2006-01-02"),
		Kind:       string(planned.Kind),
		Segments:   segments,
	})
}
