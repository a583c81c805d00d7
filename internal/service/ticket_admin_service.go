package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/events"
	"github.com/spec-kit/complaint-bot/internal/repository"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// TicketAdminService serves the authenticated HTTP API: listing,
// inspecting, and moving tickets through their lifecycle.
type TicketAdminService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func NewTicketAdminService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketAdminService {
	return &TicketAdminService{tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit log to status change events.
func (s *TicketAdminService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleStatusChanged)
}

func (s *TicketAdminService) handleStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("ticket status changed",
		zap.String("ticket_id", event.TicketID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
		zap.String("admin_id", payload.AdminID))
	return nil
}

// List returns tickets ordered newest first.
func (s *TicketAdminService) List(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.tickets.ListAll(ctx, limit, offset)
}

// Get fetches a single ticket by its public identifier.
func (s *TicketAdminService) Get(ctx context.Context, ticketID string) (*domain.TicketRecord, error) {
	rec, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return rec, nil
}

// UpdateStatus moves a ticket to a new status after validating the
// transition, then publishes a ticket_status_changed event.
func (s *TicketAdminService) UpdateStatus(ctx context.Context, ticketID string, next domain.TicketStatus, admin *domain.AdminAccount) (*domain.TicketRecord, error) {
	rec, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if rec.Status == next {
		return rec, nil
	}
	if !domain.ValidStatusTransition(rec.Status, next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": string(rec.Status),
			"to":   string(next),
		})
	}

	if err := s.tickets.UpdateStatus(ctx, ticketID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	old := rec.Status
	rec.Status = next
	s.publishStatusChanged(ctx, rec, old, admin)
	return rec, nil
}

func (s *TicketAdminService) publishStatusChanged(ctx context.Context, rec *domain.TicketRecord, old domain.TicketStatus, admin *domain.AdminAccount) {
	adminID := ""
	if admin != nil {
		adminID = admin.ID
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  rec.TicketID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: old,
			NewStatus: rec.Status,
			AdminID:   adminID,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish ticket_status_changed failed",
			zap.String("ticket_id", rec.TicketID), zap.Error(err))
	}
}
