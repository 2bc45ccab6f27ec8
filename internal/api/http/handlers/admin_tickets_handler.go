package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hcp-suporte/helpdesk-service/internal/api/dto"
	"github.com/hcp-suporte/helpdesk-service/internal/auth"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	"github.com/hcp-suporte/helpdesk-service/internal/service"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// AdminTicketsHandler manages triage endpoints for the admin role.
type AdminTicketsHandler struct {
	service *service.TicketService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService) *AdminTicketsHandler {
	return &AdminTicketsHandler{service: ticketService}
}

// ListTickets GET /admin/tickets. Admins see the whole collection, with
// an optional status filter for the dashboard tabs.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	tickets, err := h.service.ListTickets(c.UserContext(), principal.User, domain.TicketStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// UpdateStatus PATCH /admin/tickets/:id/status.
func (h *AdminTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.User, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Stats GET /admin/tickets/stats.
func (h *AdminTicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
	}})
}
