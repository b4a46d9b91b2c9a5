package report

import (
	"context"
	"fmt"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/service/recon"
	"github.com/xuri/excelize/v2"
)

// Service builds the work-day reconciliation spreadsheet.
type Service interface {
	// WorkDayReport evaluates every active employee for the work-day
	// and renders one row per employee with planned vs worked figures
	WorkDayReport(ctx context.Context, workDay time.Time) (*excelize.File, error)
}

type reportService struct {
	employeeRepo employee.EmployeeRepository
	reconSvc     recon.Service
}

func NewReportService(employeeRepo employee.EmployeeRepository, reconSvc recon.Service) Service {
	return &reportService{
		employeeRepo: employeeRepo,
		reconSvc:     reconSvc,
	}
}

var headers = []string{
	"Code", "Employe", "Cible (min)", "Travaille (min)", "Ecart (min)",
	"Manquant (min)", "Heures sup (min)", "Sessions", "En cours", "Anomalies proposees",
}

// WorkDayReport implements Service.
func (s *reportService) WorkDayReport(ctx context.Context, workDay time.Time) (*excelize.File, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Pointage " + workDay.Format("2006-01-02")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	row := 2
	for _, emp := range employees {
		result, err := s.reconSvc.Summary(ctx, emp.ID, workDay)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", emp.Code, err)
		}

		// Rest days with no presence stay out of the report.
		if !result.HasPlan && result.TotalWorkedMinutes == 0 {
			continue
		}

		ongoing := "non"
		if result.Ongoing {
			ongoing = "oui"
		}

		values := []interface{}{
			emp.Code,
			emp.FullName(),
			result.TargetMinutes,
			result.TotalWorkedMinutes,
			result.VarianceMinutes,
			result.MissingMinutes,
			result.OvertimeMinutes,
			len(result.Sessions),
			ongoing,
			len(result.Proposals),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
		row++
	}

	return f, nil
}
