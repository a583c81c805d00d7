package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/observability"
	"github.com/spec-kit/complaint-bot/internal/session"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// ConversationService routes each inbound channel event through the
// session store to the active workflow. It is the last line of defense:
// nothing it calls may crash the process or leave a user without a reply.
type ConversationService struct {
	sessions *session.Store
	sender   channel.Sender
	intake   *IntakeService
	status   *StatusService
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewConversationService constructs the router.
func NewConversationService(sessions *session.Store, sender channel.Sender, intake *IntakeService, status *StatusService, logger *zap.Logger, metrics *observability.Metrics) *ConversationService {
	return &ConversationService{
		sessions: sessions,
		sender:   sender,
		intake:   intake,
		status:   status,
		logger:   logger,
		metrics:  metrics,
	}
}

// HandleEvent processes one inbound event. It satisfies channel.Handler.
func (r *ConversationService) HandleEvent(ctx context.Context, ev channel.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while handling event",
				zap.String("user_id", ev.UserID),
				zap.Any("panic", rec))
			r.resetWithFailure(ctx, ev)
		}
	}()

	r.metrics.RecordEvent(string(ev.Kind))

	if err := r.route(ctx, ev); err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "CORRUPTED_STATE" {
			r.logger.Warn("corrupted conversation state, resetting",
				zap.String("user_id", ev.UserID),
				zap.Any("details", domainErr.Details))
			r.sessions.Clear(ev.UserID)
			r.send(ctx, ev.ChatID, replyIdleMenu)
			return
		}
		r.logger.Error("event handling failed",
			zap.String("user_id", ev.UserID),
			zap.Error(err))
		r.resetWithFailure(ctx, ev)
	}
}

func (r *ConversationService) route(ctx context.Context, ev channel.Event) error {
	conv := r.sessions.GetOrCreate(ev.UserID)

	if ev.Kind == channel.KindCancel {
		if conv.Idle() {
			return r.sender.Send(ctx, ev.ChatID, replyIdleMenu)
		}
		return r.intake.Cancel(ctx, ev)
	}

	switch conv.Mode {
	case domain.ModeNone, "":
		return r.handleIdle(ctx, ev)
	case domain.ModeIntake:
		return r.intake.Advance(ctx, ev, conv)
	case domain.ModeStatusLookup:
		return r.handleStatusLookup(ctx, ev)
	}

	return apperrors.NewCorruptedState(string(conv.Mode), string(conv.Step))
}

func (r *ConversationService) handleIdle(ctx context.Context, ev channel.Event) error {
	if ev.Kind != channel.KindCommand {
		// Out-of-context messages, including answers to steps of an
		// already expired workflow, get the menu.
		return r.sender.Send(ctx, ev.ChatID, replyIdleMenu)
	}

	switch ev.Command {
	case "lapor":
		return r.intake.Begin(ctx, ev)
	case "status":
		ticketID := strings.TrimSpace(ev.Text)
		if ticketID == "" {
			conv := domain.Conversation{Mode: domain.ModeStatusLookup}
			r.sessions.Update(ev.UserID, conv)
			return r.sender.Send(ctx, ev.ChatID, replyAskTicketID)
		}
		return r.replyStatus(ctx, ev, ticketID)
	default:
		return r.sender.Send(ctx, ev.ChatID, replyIdleMenu)
	}
}

func (r *ConversationService) handleStatusLookup(ctx context.Context, ev channel.Event) error {
	if ev.Kind != channel.KindText || strings.TrimSpace(ev.Text) == "" {
		return r.sender.Send(ctx, ev.ChatID, replyInvalidNotice+replyAskTicketID)
	}
	r.sessions.Clear(ev.UserID)
	return r.replyStatus(ctx, ev, strings.TrimSpace(ev.Text))
}

// replyStatus answers a one-shot ownership-scoped query. A missing ticket
// and someone else's ticket produce the identical reply.
func (r *ConversationService) replyStatus(ctx context.Context, ev channel.Event, ticketID string) error {
	rec, err := r.status.Lookup(ctx, ev.UserID, ticketID)
	if err != nil {
		return r.sender.Send(ctx, ev.ChatID, replyTicketNotFound)
	}
	return r.sender.Send(ctx, ev.ChatID, statusMessage(rec))
}

func (r *ConversationService) resetWithFailure(ctx context.Context, ev channel.Event) {
	r.sessions.Clear(ev.UserID)
	r.send(ctx, ev.ChatID, replyGenericFailure+"\n\n"+replyIdleMenu)
}

func (r *ConversationService) send(ctx context.Context, chatID, text string) {
	if err := r.sender.Send(ctx, chatID, text); err != nil {
		r.logger.Warn("reply send failed", zap.String("chat_id", chatID), zap.Error(err))
	}
}
