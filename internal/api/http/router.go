package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hcp-suporte/helpdesk-service/internal/api/http/handlers"
	"github.com/hcp-suporte/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Reports        *handlers.ReportsHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/client/identify", cfg.Auth.IdentifyClient)
	authGroup.Post("/guest", cfg.Auth.Guest)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Logout)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRequester())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/tickets", cfg.AdminTickets.ListTickets)
	admin.Get("/tickets/stats", cfg.AdminTickets.Stats)
	admin.Patch("/tickets/:id/status", cfg.AdminTickets.UpdateStatus)
	admin.Get("/reports", cfg.Reports.GetReport)
	admin.Get("/reports/export", cfg.Reports.ExportCSV)

	chat := app.Group("/chat", cfg.AuthMiddleware.Handle, auth.RequireRequester())
	chat.Post("/sessions", cfg.Chat.StartSession)
	chat.Post("/sessions/:id/messages", cfg.Chat.SendMessage)
	chat.Delete("/sessions/:id", cfg.Chat.CloseSession)
}
