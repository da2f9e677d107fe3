package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/comtooin/support-center/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves aggregates and spreadsheet exports.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Summary GET /api/admin/reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.reports.Summary(c.UserContext(), c.Query("customerName"), c.Query("month"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// Excel GET /api/admin/reports/excel.
func (h *ReportsHandler) Excel(c *fiber.Ctx) error {
	report, err := h.reports.ExportExcel(c.UserContext(),
		c.Query("customerName"), c.Query("month"), c.Query("status"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(report.FileName)))
	return c.Send(report.Content)
}
