package dto

import (
	"time"

	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ClientName  string                `json:"clientName"`
	Sector      string                `json:"sector"`
	Phone       string                `json:"phone"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
}

// UpdateStatusRequest payload for the admin status transition.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
	Notes  string              `json:"notes"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID              string                `json:"id"`
	ClientID        string                `json:"clientId"`
	ClientName      string                `json:"clientName"`
	Sector          string                `json:"sector"`
	Phone           string                `json:"phone"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Category        domain.TicketCategory `json:"category"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	ResolutionNotes string                `json:"resolutionNotes,omitempty"`
	AIInsights      string                `json:"aiInsights,omitempty"`
}

// StatsResponse carries the admin dashboard counters.
type StatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              ticket.ID,
		ClientID:        ticket.ClientID,
		ClientName:      ticket.ClientName,
		Sector:          ticket.Sector,
		Phone:           ticket.Phone,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        ticket.Category,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolutionNotes: ticket.ResolutionNotes,
		AIInsights:      ticket.AIInsights,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
