package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hcp-suporte/helpdesk-service/internal/api/dto"
	"github.com/hcp-suporte/helpdesk-service/internal/service"
)

// ReportsHandler serves the admin report views and exports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// GetReport GET /admin/reports?start=&end=&day=.
func (h *ReportsHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.BuildReport(c.UserContext(), parseReportFilter(c))
	if err != nil {
		return err
	}

	byCategory := make([]dto.CategoryCountResponse, 0, len(report.ByCategory))
	for _, bucket := range report.ByCategory {
		byCategory = append(byCategory, dto.CategoryCountResponse{Category: bucket.Category, Count: bucket.Count})
	}
	byStatus := make([]dto.StatusCountResponse, 0, len(report.ByStatus))
	for _, bucket := range report.ByStatus {
		byStatus = append(byStatus, dto.StatusCountResponse{Status: bucket.Status, Count: bucket.Count})
	}

	return c.JSON(fiber.Map{"data": dto.ReportResponse{
		Total:      report.Total,
		ByCategory: byCategory,
		ByStatus:   byStatus,
		Summary:    report.Summary,
		Tickets:    dto.NewTicketResponses(report.Tickets),
	}})
}

// ExportCSV GET /admin/reports/export?start=&end=&day=.
func (h *ReportsHandler) ExportCSV(c *fiber.Ctx) error {
	filename, data, err := h.service.ExportCSV(c.UserContext(), parseReportFilter(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func parseReportFilter(c *fiber.Ctx) service.ReportFilter {
	return service.ReportFilter{
		Start: c.Query("start"),
		End:   c.Query("end"),
		Day:   c.Query("day"),
	}
}
