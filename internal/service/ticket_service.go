package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/ai"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	"github.com/hcp-suporte/helpdesk-service/internal/events"
	"github.com/hcp-suporte/helpdesk-service/internal/observability"
	"github.com/hcp-suporte/helpdesk-service/internal/repository"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// Fallback analysis values used when the model call fails. Ticket
// creation must never block on the AI collaborator.
const (
	fallbackSummary = "Análise não disponível no momento."
	fallbackAction  = "Avaliar chamado manualmente."
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	analyzer   ai.Client
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Analyzer   ai.Client
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TicketCreateInput describes a ticket submission.
type TicketCreateInput struct {
	ClientName  string
	Sector      string
	Phone       string
	Title       string
	Description string
	Category    domain.TicketCategory
}

// TicketStats are the admin dashboard counters.
type TicketStats struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// CreateTicket opens a ticket for the acting requester. The AI analysis
// assigns priority and insights; on analysis failure fixed fallback
// values are used and creation proceeds.
func (s *TicketService) CreateTicket(ctx context.Context, requester domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if !requester.Role.CanSubmit() {
		return nil, apperrors.NewForbidden("only clients and guests open tickets")
	}
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	analysis := s.analyze(ctx, input)

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		ClientID:    requester.ID,
		ClientName:  input.ClientName,
		Sector:      input.Sector,
		Phone:       input.Phone,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.TicketStatusPending,
		Priority:    analysis.SuggestedPriority,
		CreatedAt:   now,
		UpdatedAt:   now,
		AIInsights:  fmt.Sprintf("Análise IA: %s\nSugestão: %s", analysis.Summary, analysis.SuggestedAction),
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		Actor:     events.Actor{Role: requester.Role, UserID: requester.ID},
		Timestamp: now,
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Priority: ticket.Priority,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// ListTickets returns the tickets visible to the acting identity: admins
// see everything, clients and guests only their own. An empty statusFilter
// means no status filtering.
func (s *TicketService) ListTickets(ctx context.Context, requester domain.User, statusFilter domain.TicketStatus) ([]domain.Ticket, error) {
	if statusFilter != "" && !statusFilter.Valid() {
		return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"status": statusFilter})
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	if requester.Role == domain.RoleAdmin {
		tickets, err = s.tickets.ListAll(ctx)
	} else {
		tickets, err = s.tickets.ListByClient(ctx, requester.ID)
	}
	if err != nil {
		return nil, err
	}
	if statusFilter == "" {
		return tickets, nil
	}

	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.Status == statusFilter {
			filtered = append(filtered, ticket)
		}
	}
	return filtered, nil
}

// GetTicket fetches one ticket, enforcing ownership for non-admins.
func (s *TicketService) GetTicket(ctx context.Context, requester domain.User, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	if requester.Role != domain.RoleAdmin && ticket.ClientID != requester.ID {
		return nil, apperrors.NewForbidden("ticket belongs to another client")
	}
	return ticket, nil
}

// UpdateStatus rewrites the status of one ticket. Any status may be set
// from any other, including a no-op. Resolution notes are overwritten only
// when non-empty notes are supplied; priority and createdAt are never
// touched. Admin gating happens at the transport layer.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.User, id string, status domain.TicketStatus, notes string) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = status
	if strings.TrimSpace(notes) != "" {
		ticket.ResolutionNotes = notes
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticket.ID,
		Actor:     events.Actor{Role: actor.Role, UserID: actor.ID},
		Timestamp: ticket.UpdatedAt,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Notes:     notes,
		},
	})
	return ticket, nil
}

// Stats computes the admin dashboard counters over the full collection.
func (s *TicketService) Stats(ctx context.Context) (*TicketStats, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusPending:
			stats.Pending++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusDone:
			stats.Resolved++
		}
	}
	return stats, nil
}

func (s *TicketService) analyze(ctx context.Context, input TicketCreateInput) ai.Analysis {
	analysis, err := s.analyzer.AnalyzeTicket(ctx, input.Title, input.Description, input.Category)
	s.metrics.RecordAICall("analyze_ticket", err != nil)
	if err != nil {
		s.logger.Warn("ticket analysis failed, using fallback", zap.Error(err))
		return ai.Analysis{
			SuggestedPriority: domain.TicketPriorityMedium,
			Summary:           fallbackSummary,
			SuggestedAction:   fallbackAction,
		}
	}
	return *analysis
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCreateInput(input *TicketCreateInput) error {
	input.ClientName = strings.TrimSpace(input.ClientName)
	input.Sector = strings.TrimSpace(input.Sector)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	missing := map[string]any{}
	if input.ClientName == "" {
		missing["clientName"] = "required"
	}
	if input.Sector == "" {
		missing["sector"] = "required"
	}
	if input.Phone == "" {
		missing["phone"] = "required"
	}
	if input.Title == "" {
		missing["title"] = "required"
	}
	if input.Description == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", missing)
	}
	if !input.Category.Valid() {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	return nil
}
