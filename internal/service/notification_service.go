package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/config"
	"github.com/spec-kit/complaint-bot/internal/events"
	"github.com/spec-kit/complaint-bot/internal/observability"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// RecipientOutcome reports the result of one recipient send within a
// fan-out round.
type RecipientOutcome struct {
	Recipient string
	Err       error
}

// NotificationService fans new-ticket alerts out to the fixed admin
// recipient set. Recipient failures are isolated; a round is retried only
// while it delivers to nobody.
type NotificationService struct {
	sender     channel.Sender
	recipients []string
	logger     *zap.Logger
	metrics    *observability.Metrics

	maxAttempts int
	retryDelay  time.Duration
}

// NewNotificationService constructs the service from the static recipient
// chat ids loaded at startup.
func NewNotificationService(sender channel.Sender, cfg config.NotifyConfig, adminChatIDs []int64, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	recipients := make([]string, 0, len(adminChatIDs))
	for _, id := range adminChatIDs {
		recipients = append(recipients, strconv.FormatInt(id, 10))
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &NotificationService{
		sender:      sender,
		recipients:  recipients,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
		retryDelay:  cfg.RetryDelay(),
	}
}

// RegisterHandlers subscribes to ticket creation events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for ticket_created", zap.String("ticket_id", event.TicketID))
		return nil
	}
	return n.Dispatch(ctx, adminAlert(&payload.Record))
}

// Dispatch sends text to every recipient, retrying whole rounds up to the
// configured bound while no recipient could be reached. At least one
// delivered recipient counts as overall success.
func (n *NotificationService) Dispatch(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		outcomes := n.fanOut(ctx, text)

		delivered := 0
		for _, outcome := range outcomes {
			if outcome.Err == nil {
				delivered++
			} else {
				lastErr = outcome.Err
			}
		}

		if delivered > 0 {
			if delivered < len(outcomes) {
				n.logger.Warn("partial admin notification delivery",
					zap.Int("delivered", delivered),
					zap.Int("recipients", len(outcomes)),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		n.logger.Warn("admin notification round delivered nothing",
			zap.Int("attempt", attempt),
			zap.Int("recipients", len(outcomes)),
			zap.Error(lastErr))

		if attempt < n.maxAttempts {
			select {
			case <-time.After(n.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// fanOut attempts every recipient independently and returns the explicit
// per-recipient outcomes.
func (n *NotificationService) fanOut(ctx context.Context, text string) []RecipientOutcome {
	outcomes := make([]RecipientOutcome, 0, len(n.recipients))
	for _, recipient := range n.recipients {
		err := n.sender.Send(ctx, recipient, text)
		n.metrics.RecordNotification(err == nil)
		if err != nil {
			err = apperrors.NewNotificationError(recipient, err)
			n.logger.Warn("admin notification failed", zap.String("recipient", recipient), zap.Error(err))
		}
		outcomes = append(outcomes, RecipientOutcome{Recipient: recipient, Err: err})
	}
	return outcomes
}
