package ai

import (
	"context"

	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Analysis is the structured classification returned for a new ticket.
// The json tags match the wire contract expected from the model.
type Analysis struct {
	SuggestedPriority domain.TicketPriority `json:"suggestedPriority"`
	Summary           string                `json:"summary"`
	SuggestedAction   string                `json:"suggestedAction"`
}

// ReportEntry is the only ticket data shared with the model when
// generating a report summary.
type ReportEntry struct {
	Category domain.TicketCategory `json:"category"`
	Status   domain.TicketStatus   `json:"status"`
}

// Client is the narrow interface over the hosted model. Callers are
// expected to degrade to fixed fallback values on error; no call here
// is allowed to become a hard failure for the end-user.
type Client interface {
	// AnalyzeTicket classifies a new ticket, returning a suggested
	// priority, a short summary and a suggested action.
	AnalyzeTicket(ctx context.Context, title, description string, category domain.TicketCategory) (*Analysis, error)
	// SummarizeReport produces an executive summary in Portuguese for
	// the given category/status pairs.
	SummarizeReport(ctx context.Context, entries []ReportEntry) (string, error)
	// Complete runs one free-form chat completion over the given turns.
	Complete(ctx context.Context, messages []Message) (string, error)
}
