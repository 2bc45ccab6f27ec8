package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The literal values
// are the Portuguese labels shown to end-users and stored as-is.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pendente"
	TicketStatusInProgress TicketStatus = "Em Andamento"
	TicketStatusDone       TicketStatus = "Concluído"
)

// Valid reports whether the status is one of the enumerated values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusDone:
		return true
	}
	return false
}

// TicketPriority enumerates urgency, assigned once at creation by the
// AI analysis step and never edited afterwards.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Baixa"
	TicketPriorityMedium   TicketPriority = "Média"
	TicketPriorityHigh     TicketPriority = "Alta"
	TicketPriorityCritical TicketPriority = "Crítica"
)

// Valid reports whether the priority is one of the enumerated values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketCategory enumerates the problem areas a requester can pick.
type TicketCategory string

const (
	TicketCategoryNetwork     TicketCategory = "Problema na Rede"
	TicketCategoryPrinter     TicketCategory = "Impressora"
	TicketCategoryTelephony   TicketCategory = "Telefonia"
	TicketCategoryAccount     TicketCategory = "Acesso/Conta"
	TicketCategoryPeripherals TicketCategory = "Periféricos"
)

// Valid reports whether the category is one of the enumerated values.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryNetwork, TicketCategoryPrinter, TicketCategoryTelephony,
		TicketCategoryAccount, TicketCategoryPeripherals:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Stored as a JSON document
// keyed by ID; the json tags define the stored wire format.
type Ticket struct {
	ID              string         `json:"id"`
	ClientID        string         `json:"clientId"`
	ClientName      string         `json:"clientName"`
	Sector          string         `json:"sector"`
	Phone           string         `json:"phone"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Category        TicketCategory `json:"category"`
	Status          TicketStatus   `json:"status"`
	Priority        TicketPriority `json:"priority"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	ResolutionNotes string         `json:"resolutionNotes,omitempty"`
	AIInsights      string         `json:"aiInsights,omitempty"`
}
