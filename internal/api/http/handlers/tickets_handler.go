package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hcp-suporte/helpdesk-service/internal/api/dto"
	"github.com/hcp-suporte/helpdesk-service/internal/auth"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	"github.com/hcp-suporte/helpdesk-service/internal/service"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// TicketsHandler manages requester (client/guest) ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		ClientName:  req.ClientName,
		Sector:      req.Sector,
		Phone:       req.Phone,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets. Requesters only ever see their own tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
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

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
