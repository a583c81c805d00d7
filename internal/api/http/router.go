package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-bot/internal/api/http/handlers"
	"github.com/spec-kit/complaint-bot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	protected.Get("/", cfg.Tickets.ListTickets)
	protected.Get("/:ticketId", cfg.Tickets.GetTicket)
	protected.Patch("/:ticketId/status", cfg.Tickets.UpdateStatus)
}
