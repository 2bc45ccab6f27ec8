package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hcp-suporte/helpdesk-service/internal/api/dto"
	"github.com/hcp-suporte/helpdesk-service/internal/service"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// AuthHandler manages login and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// AdminLogin POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.service.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuthResponse(user, token, exp)})
}

// IdentifyClient POST /auth/client/identify.
func (h *AuthHandler) IdentifyClient(c *fiber.Ctx) error {
	var req dto.ClientIdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.service.IdentifyClient(c.UserContext(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAuthResponse(user, token, exp)})
}

// Guest POST /auth/guest.
func (h *AuthHandler) Guest(c *fiber.Ctx) error {
	user, token, exp, err := h.service.GuestSession(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAuthResponse(user, token, exp)})
}

// Logout POST /auth/logout. Stateless tokens make this a no-op; the
// client discards its token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), ""); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
