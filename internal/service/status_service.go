package service

import (
	"context"
	"errors"

	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/repository"
)

// ErrTicketNotFound is returned both when no ticket matches and when the
// ticket belongs to another user. Collapsing the two outcomes keeps the
// existence of other users' tickets unobservable.
var ErrTicketNotFound = errors.New("ticket not found")

// StatusService answers ownership-scoped status queries.
type StatusService struct {
	tickets repository.TicketRepository
}

// NewStatusService constructs the service.
func NewStatusService(tickets repository.TicketRepository) *StatusService {
	return &StatusService{tickets: tickets}
}

// Lookup returns the ticket only when it exists and is owned by userID.
func (s *StatusService) Lookup(ctx context.Context, userID, ticketID string) (*domain.TicketRecord, error) {
	rec, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, ErrTicketNotFound
	}
	if rec.OwnerUserID != userID {
		return nil, ErrTicketNotFound
	}
	return rec, nil
}
