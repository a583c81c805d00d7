package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-bot/internal/api/dto"
	"github.com/spec-kit/complaint-bot/internal/auth"
	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/service"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// TicketsHandler serves the authenticated admin ticket endpoints.
type TicketsHandler struct {
	service *service.TicketAdminService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(adminService *service.TicketAdminService) *TicketsHandler {
	return &TicketsHandler{service: adminService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	if _, ok := auth.AdminFromContext(c); !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	limit := parseInt(c.Query("limit"), 50)
	offset := parseInt(c.Query("offset"), 0)

	tickets, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketListFromDomain(tickets, limit, offset)})
}

// GetTicket GET /tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	if _, ok := auth.AdminFromContext(c); !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	rec, err := h.service.Get(c.Context(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(rec)})
}

// UpdateStatus PATCH /tickets/:ticketId/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	admin, ok := auth.AdminFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status: "+req.Status, nil)
	}

	rec, err := h.service.UpdateStatus(c.Context(), c.Params("ticketId"), status, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(rec)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
