package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/ai"
	"github.com/hcp-suporte/helpdesk-service/internal/api/dto"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// Fallback turns shown when the model is unreachable. The session stays
// usable; the user may simply send again.
const (
	chatStartFallback = "Desculpe, tive um problema ao iniciar o assistente. Por favor, abra um chamado."
	chatSendFallback  = "Houve um erro na comunicação. Por favor, abra um chamado formal."
)

// ChatHandler manages self-service troubleshooting conversations.
type ChatHandler struct {
	sessions *ai.SessionManager
	logger   *zap.Logger
}

// NewChatHandler constructs handler.
func NewChatHandler(sessions *ai.SessionManager, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{sessions: sessions, logger: logger}
}

// StartSession POST /chat/sessions.
func (h *ChatHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Category.Valid() {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": req.Category})
	}

	id, greeting, err := h.sessions.Start(c.UserContext(), req.Category)
	if err != nil {
		h.logger.Warn("chat session greeting failed", zap.Error(err))
		greeting = chatStartFallback
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ChatSessionResponse{
		SessionID: id,
		Category:  req.Category,
		Reply:     greeting,
	}})
}

// SendMessage POST /chat/sessions/:id/messages.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}

	reply, err := h.sessions.Send(c.UserContext(), c.Params("id"), req.Text)
	if err != nil {
		if errors.Is(err, ai.ErrSessionNotFound) {
			return apperrors.NewNotFound("chat session", map[string]any{"id": c.Params("id")})
		}
		h.logger.Warn("chat reply failed", zap.Error(err))
		reply = chatSendFallback
	}
	return c.JSON(fiber.Map{"data": dto.ChatReplyResponse{Reply: reply}})
}

// CloseSession DELETE /chat/sessions/:id.
func (h *ChatHandler) CloseSession(c *fiber.Ctx) error {
	h.sessions.Close(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
