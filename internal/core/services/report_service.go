package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type ReportService struct {
	reports ports.ReportRepository
	now     func() time.Time
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(reports ports.ReportRepository) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

func (s *ReportService) Build(ctx context.Context) (*domain.Report, error) {
	summary, err := s.reports.Summary(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.reports.ActivityLog(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Report{Summary: summary, Details: details, GeneratedAt: s.now().UTC()}, nil
}

// RenderPDF lays the report out on A4 portrait: a summary block followed by
// the activity log table.
func (s *ReportService) RenderPDF(report *domain.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "e-Government Portal - Activity Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("02-Jan-2006 15:04 MST")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")

	sum := report.Summary
	rows := [][2]string{
		{"Users", fmt.Sprint(sum.TotalUsers)},
		{"Departments", fmt.Sprint(sum.TotalDepartments)},
		{"Services", fmt.Sprint(sum.TotalServices)},
		{"Requests", fmt.Sprint(sum.TotalRequests)},
		{"Awaiting payment", fmt.Sprint(sum.AwaitingPayment)},
		{"Under review", fmt.Sprint(sum.UnderReview)},
		{"Approved", fmt.Sprint(sum.Approved)},
		{"Rejected", fmt.Sprint(sum.Rejected)},
		{"Payments", fmt.Sprint(sum.TotalPayments)},
	}
	pdf.SetFont("Arial", "", 11)
	for _, r := range rows {
		pdf.CellFormat(95, 7, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, r[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Activity Log", "1", 1, "L", true, 0, "")

	widths := []float64{40, 45, 40, 30, 35}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range []string{"Citizen", "Service", "Department", "Status", "Created"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(report.Details) == 0 {
		pdf.CellFormat(190, 6, "No requests recorded", "1", 1, "C", false, 0, "")
	}
	for _, e := range report.Details {
		cells := []string{
			tr(e.UserName),
			tr(e.ServiceName),
			tr(e.DepartmentName),
			string(e.Status),
			e.CreatedAt.Format("2006-01-02 15:04"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
