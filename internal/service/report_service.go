package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"

	"github.com/comtooin/support-center/internal/repository"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// SummaryReport aggregates requests by status and, when no month filter is
// active, by calendar month of creation.
type SummaryReport struct {
	Status  []repository.StatusCount `json:"status"`
	Monthly []repository.MonthCount  `json:"monthly"`
}

// ExcelReport is a rendered spreadsheet export.
type ExcelReport struct {
	FileName string
	Content  []byte
}

// ReportService renders aggregates and tabular exports over the request set.
type ReportService struct {
	requests repository.RequestRepository
	comments repository.CommentRepository
	policy   *bluemonday.Policy
}

// NewReportService constructs the service.
func NewReportService(requests repository.RequestRepository, comments repository.CommentRepository) *ReportService {
	return &ReportService{
		requests: requests,
		comments: comments,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Summary returns the status aggregate plus, when month is unset, the monthly
// aggregate.
func (s *ReportService) Summary(ctx context.Context, customerName, month string) (*SummaryReport, error) {
	filter := repository.RequestFilter{CustomerName: customerName, Month: month}

	statusCounts, err := s.requests.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	if statusCounts == nil {
		statusCounts = []repository.StatusCount{}
	}

	monthCounts := []repository.MonthCount{}
	if month == "" {
		monthCounts, err = s.requests.CountByMonth(ctx, filter)
		if err != nil {
			return nil, err
		}
		if monthCounts == nil {
			monthCounts = []repository.MonthCount{}
		}
	}

	return &SummaryReport{Status: statusCounts, Monthly: monthCounts}, nil
}

var exportHeader = []interface{}{"ID", "Received At", "Customer", "User", "Status", "Request", "Responses"}

var exportColWidths = []float64{10, 20, 20, 15, 12, 40, 50}

// ExportExcel renders one row per matching request, newest first, with
// markup-stripped bodies and concatenated remarks. The sheet title and file
// name embed the active filters, with "all" standing in for an absent one.
func (s *ReportService) ExportExcel(ctx context.Context, customerName, month, status string) (*ExcelReport, error) {
	filter := repository.RequestFilter{
		CustomerName: customerName,
		Month:        month,
		Status:       status,
		SortField:    "created_at",
		SortDir:      "desc",
	}
	reqs, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	customerPart := customerName
	if customerPart == "" {
		customerPart = "all"
	}
	monthPart := month
	if monthPart == "" {
		monthPart = "all"
	}
	sheet := fmt.Sprintf("%s-%s support report", customerPart, monthPart)
	if len(sheet) > 31 {
		// excel sheet titles cap at 31 characters
		sheet = sheet[:31]
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", boldStyle); err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	for i, width := range exportColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}

	for i := range reqs {
		req := &reqs[i]
		comments, err := s.comments.ListByRequest(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		remarks := make([]string, 0, len(comments))
		for _, c := range comments {
			remarks = append(remarks, s.StripTags(c.Comment))
		}

		row := []interface{}{
			req.ID,
			req.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			req.CustomerName,
			req.UserName,
			string(req.Status),
			s.StripTags(req.Content),
			strings.Join(remarks, "\n"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, apperrors.NewUpstreamError(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	return &ExcelReport{
		FileName: fmt.Sprintf("%s-%s-report.xlsx", customerPart, monthPart),
		Content:  buf.Bytes(),
	}, nil
}

// StripTags reduces rich-text markup to plain text.
func (s *ReportService) StripTags(markup string) string {
	return html.UnescapeString(s.policy.Sanitize(markup))
}
