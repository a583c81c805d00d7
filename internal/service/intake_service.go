package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/allocator"
	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/config"
	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/events"
	"github.com/spec-kit/complaint-bot/internal/observability"
	"github.com/spec-kit/complaint-bot/internal/repository"
	"github.com/spec-kit/complaint-bot/internal/session"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// IntakeService drives the multi-step complaint workflow. Each accepted
// event advances the conversation exactly one step; anything else re-emits
// the current prompt with a corrective notice.
type IntakeService struct {
	sessions   *session.Store
	tickets    repository.TicketRepository
	alloc      *allocator.Allocator
	dispatcher events.Dispatcher
	sender     channel.Sender
	logger     *zap.Logger
	metrics    *observability.Metrics
	policy     config.IntakeConfig

	now func() time.Time
	// publish decouples notification fan-out from the reporter's
	// confirmation reply.
	publish func(events.Event)
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Sessions   *session.Store
	TicketRepo repository.TicketRepository
	Allocator  *allocator.Allocator
	Dispatcher events.Dispatcher
	Sender     channel.Sender
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Policy     config.IntakeConfig
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	s := &IntakeService{
		sessions:   deps.Sessions,
		tickets:    deps.TicketRepo,
		alloc:      deps.Allocator,
		dispatcher: deps.Dispatcher,
		sender:     deps.Sender,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		policy:     deps.Policy,
		now:        time.Now,
	}
	s.publish = func(event events.Event) {
		go func() {
			_ = s.dispatcher.Publish(context.Background(), event)
		}()
	}
	return s
}

// Begin starts a new intake workflow for the sender of ev.
func (s *IntakeService) Begin(ctx context.Context, ev channel.Event) error {
	conv := domain.Conversation{Mode: domain.ModeIntake}
	if s.policy.RequireContext {
		conv.Step = domain.StepContext
	} else {
		conv.Step = domain.StepName
	}
	s.sessions.Update(ev.UserID, conv)
	return s.sender.Send(ctx, ev.ChatID, s.prompt(conv.Step))
}

// Advance applies one event to an in-progress intake conversation. Wrong
// event kinds are handled by re-prompting; the returned error is reserved
// for corrupted state and transport failures.
func (s *IntakeService) Advance(ctx context.Context, ev channel.Event, conv domain.Conversation) error {
	switch conv.Step {
	case domain.StepContext:
		input, ok := s.acceptText(ev)
		if !ok {
			return s.reprompt(ctx, ev, conv)
		}
		if s.policy.StrictContext {
			if _, matched := s.alloc.ResolveContext(input); !matched {
				return s.reprompt(ctx, ev, conv)
			}
		}
		conv.Draft.ContextInput = input
		return s.advanceTo(ctx, ev, conv, domain.StepName)

	case domain.StepName:
		name, ok := s.acceptText(ev)
		if !ok {
			return s.reprompt(ctx, ev, conv)
		}
		conv.Draft.ReporterName = name
		return s.advanceTo(ctx, ev, conv, domain.StepHandle)

	case domain.StepHandle:
		handle, ok := s.acceptText(ev)
		if !ok {
			return s.reprompt(ctx, ev, conv)
		}
		conv.Draft.ReporterHandle = handle
		return s.advanceTo(ctx, ev, conv, domain.StepComplaint)

	case domain.StepComplaint:
		text, ok := s.acceptText(ev)
		if !ok {
			return s.reprompt(ctx, ev, conv)
		}
		conv.Draft.ComplaintText = text
		return s.advanceTo(ctx, ev, conv, domain.StepEvidence)

	case domain.StepEvidence:
		switch {
		case ev.Kind == channel.KindImage && ev.EvidenceRef != "":
			conv.Draft.EvidenceRef = ev.EvidenceRef
		case ev.Kind == channel.KindText && s.isSkipToken(ev.Text):
			conv.Draft.EvidenceRef = domain.EvidenceNone
		default:
			return s.reprompt(ctx, ev, conv)
		}
		return s.complete(ctx, ev, conv.Draft)
	}

	return apperrors.NewCorruptedState(string(conv.Mode), string(conv.Step))
}

// Cancel aborts the workflow from any step. Nothing is persisted.
func (s *IntakeService) Cancel(ctx context.Context, ev channel.Event) error {
	s.sessions.Clear(ev.UserID)
	return s.sender.Send(ctx, ev.ChatID, replyCancelled)
}

// complete runs the terminal sequence: allocate, append, confirm, fan out,
// clear. A failed append aborts the conversation without ever revealing a
// ticket identifier.
func (s *IntakeService) complete(ctx context.Context, ev channel.Event, draft domain.IntakeDraft) error {
	code := s.alloc.FallbackCode()
	if s.policy.RequireContext {
		code, _ = s.alloc.ResolveContext(draft.ContextInput)
	}

	now := s.now()
	rec := &domain.TicketRecord{
		TicketID:        s.alloc.Next(ctx, code, now),
		ContextCode:     code,
		ReporterName:    draft.ReporterName,
		ReporterHandle:  draft.ReporterHandle,
		MessagingHandle: ev.MessagingHandle,
		OwnerUserID:     ev.UserID,
		ComplaintText:   draft.ComplaintText,
		EvidenceRef:     draft.EvidenceRef,
		Status:          domain.TicketStatusProcessing,
		CreatedAt:       now,
	}

	if err := s.tickets.Append(ctx, rec); err != nil {
		s.logger.Error("ticket append failed",
			zap.String("user_id", ev.UserID),
			zap.Error(apperrors.NewPersistenceError(err)))
		s.sessions.Clear(ev.UserID)
		return s.sender.Send(ctx, ev.ChatID, replyPersistFailed)
	}

	s.metrics.RecordTicketCreated()
	s.logger.Info("ticket created",
		zap.String("ticket_id", rec.TicketID),
		zap.String("context_code", rec.ContextCode))

	if err := s.sender.Send(ctx, ev.ChatID, confirmationMessage(rec.TicketID)); err != nil {
		s.logger.Warn("confirmation send failed", zap.String("ticket_id", rec.TicketID), zap.Error(err))
	}

	s.publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  rec.TicketID,
		Timestamp: now,
		Payload:   events.TicketCreatedPayload{Record: *rec},
	})

	s.sessions.Clear(ev.UserID)
	return nil
}

func (s *IntakeService) advanceTo(ctx context.Context, ev channel.Event, conv domain.Conversation, next domain.IntakeStep) error {
	conv.Step = next
	s.sessions.Update(ev.UserID, conv)
	return s.sender.Send(ctx, ev.ChatID, s.prompt(next))
}

// reprompt re-emits the current step's prompt without advancing. The
// session is still refreshed so a struggling user does not expire mid-step.
func (s *IntakeService) reprompt(ctx context.Context, ev channel.Event, conv domain.Conversation) error {
	s.sessions.Update(ev.UserID, conv)
	return s.sender.Send(ctx, ev.ChatID, replyInvalidNotice+s.prompt(conv.Step))
}

func (s *IntakeService) prompt(step domain.IntakeStep) string {
	switch step {
	case domain.StepContext:
		return replyAskContext
	case domain.StepName:
		return replyAskName
	case domain.StepHandle:
		return replyAskHandle
	case domain.StepComplaint:
		return replyAskComplaint
	case domain.StepEvidence:
		return replyAskEvidence
	}
	return replyIdleMenu
}

func (s *IntakeService) acceptText(ev channel.Event) (string, bool) {
	if ev.Kind != channel.KindText {
		return "", false
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

func (s *IntakeService) isSkipToken(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, token := range s.policy.SkipTokens {
		if strings.ToLower(token) == text {
			return true
		}
	}
	return false
}
