package dto

import (
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// StartChatRequest opens a troubleshooting session for one category.
type StartChatRequest struct {
	Category domain.TicketCategory `json:"category"`
}

// ChatMessageRequest is one user turn.
type ChatMessageRequest struct {
	Text string `json:"text"`
}

// ChatSessionResponse returns the new session and its greeting turn.
type ChatSessionResponse struct {
	SessionID string                `json:"sessionId"`
	Category  domain.TicketCategory `json:"category"`
	Reply     string                `json:"reply"`
}

// ChatReplyResponse is one assistant turn.
type ChatReplyResponse struct {
	Reply string `json:"reply"`
}
