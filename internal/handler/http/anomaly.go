package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/handler/http/middleware"
	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AnomalyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Refuse(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.AnomalyService
}

func NewAnomalyHandler(anomalyService anomaly.AnomalyService) AnomalyHandler {
	return &anomalyHandlerImpl{anomalyService: anomalyService}
}

// List implements AnomalyHandler.
func (h *anomalyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := anomaly.ListFilter{
		EmployeeID: q.Get("employee_id"),
		Type:       q.Get("type"),
		Severity:   q.Get("severity"),
		Status:     q.Get("status"),
	}
	if dayStr := q.Get("work_day"); dayStr != "" {
		day, ok := validator.IsValidDate(dayStr)
		if !ok {
			response.BadRequest(w, "work_day must be YYYY-MM-DD", nil)
			return
		}
		filter.WorkDay = &day
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	resp, err := h.anomalyService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((resp.Total + int64(resp.PerPage) - 1) / int64(resp.PerPage))
	response.SuccessWithMeta(w, resp.Anomalies, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.PerPage,
		TotalItems: resp.Total,
		TotalPages: totalPages,
	})
}

// Get implements AnomalyHandler.
func (h *anomalyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.anomalyService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Validate implements AnomalyHandler.
func (h *anomalyHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.reviewRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.anomalyService.Validate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Anomaly validated", resp)
}

// Refuse implements AnomalyHandler.
func (h *anomalyHandlerImpl) Refuse(w http.ResponseWriter, r *http.Request) {
	req, ok := h.reviewRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.anomalyService.Refuse(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Anomaly refused", resp)
}

// Correct implements AnomalyHandler.
func (h *anomalyHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	var req anomaly.CorrectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AnomalyID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.EmployeeID(r.Context())

	resp, err := h.anomalyService.Correct(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Anomaly corrected", resp)
}

func (h *anomalyHandlerImpl) reviewRequest(w http.ResponseWriter, r *http.Request) (anomaly.ReviewRequest, bool) {
	var req anomaly.ReviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return anomaly.ReviewRequest{}, false
		}
	}
	req.AnomalyID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.EmployeeID(r.Context())
	return req, true
}
