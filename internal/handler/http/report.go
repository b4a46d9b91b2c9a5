package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
	"github.com/chronopointe/pointage-go/internal/service/report"
)

type ReportHandler interface {
	ExportWorkDay(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ExportWorkDay implements ReportHandler. Streams the work-day
// reconciliation spreadsheet as an xlsx download.
func (h *reportHandlerImpl) ExportWorkDay(w http.ResponseWriter, r *http.Request) {
	day := workday.Of(time.Now()).AddDate(0, 0, -1)
	if dayStr := r.URL.Query().Get("work_day"); dayStr != "" {
		parsed, ok := validator.IsValidDate(dayStr)
		if !ok {
			response.BadRequest(w, "work_day must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}

	f, err := h.reportService.WorkDayReport(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("pointage-%s.xlsx", day.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// Headers are already sent; an error here only truncates the download.
	_ = f.Write(w)
}
