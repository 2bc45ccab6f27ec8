package dto

import (
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// CategoryCountResponse is one category aggregation bucket.
type CategoryCountResponse struct {
	Category domain.TicketCategory `json:"category"`
	Count    int                   `json:"count"`
}

// StatusCountResponse is one status aggregation bucket.
type StatusCountResponse struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// ReportResponse is the aggregated report view.
type ReportResponse struct {
	Total      int                     `json:"total"`
	ByCategory []CategoryCountResponse `json:"byCategory"`
	ByStatus   []StatusCountResponse   `json:"byStatus"`
	Summary    string                  `json:"summary"`
	Tickets    []TicketResponse        `json:"tickets"`
}
