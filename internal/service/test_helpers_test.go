package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/allocator"
	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/config"
	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/events"
	"github.com/spec-kit/complaint-bot/internal/observability"
	"github.com/spec-kit/complaint-bot/internal/session"
)

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeSender records outbound messages and can fail selected chat ids.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[chatID]; ok && err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeSender) last() sentMessage {
	msgs := f.messages()
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func (f *fakeSender) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeTicketRepo is an in-memory TicketRepository.
type fakeTicketRepo struct {
	mu        sync.Mutex
	records   []domain.TicketRecord
	appendErr error
}

func (f *fakeTicketRepo) Append(_ context.Context, ticket *domain.TicketRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, *ticket)
	return nil
}

func (f *fakeTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.TicketRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].TicketID == ticketID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListAll(_ context.Context, _, _ int) ([]domain.TicketRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.TicketRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeTicketRepo) CountByPrefix(_ context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.records {
		if strings.HasPrefix(f.records[i].TicketID, prefix) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, ticketID string, status domain.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].TicketID == ticketID {
			f.records[i].Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

var testDate = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type testBot struct {
	router   *ConversationService
	intake   *IntakeService
	sessions *session.Store
	repo     *fakeTicketRepo
	user     *fakeSender
	admin    *fakeSender
}

// newTestBot wires the full conversation core with in-memory fakes. Admin
// alerts go through a separate sender so tests can fail them independently
// of user replies. Event publication is synchronous.
func newTestBot(policy config.IntakeConfig, notifyCfg config.NotifyConfig, adminIDs []int64) *testBot {
	return newTestBotWithTimeout(policy, notifyCfg, adminIDs, policy.IdleTimeout())
}

func newTestBotWithTimeout(policy config.IntakeConfig, notifyCfg config.NotifyConfig, adminIDs []int64, idleTimeout time.Duration) *testBot {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	repo := &fakeTicketRepo{}
	userSender := &fakeSender{}
	adminSender := &fakeSender{failFor: map[string]error{}}
	sessions := session.NewStore(idleTimeout)
	dispatcher := events.NewInMemoryDispatcher()

	alloc := allocator.New(config.AllocatorConfig{
		Mode:         config.AllocatorModeSerialized,
		FallbackCode: "OTH",
		Aliases: map[string]string{
			"website": "WEB",
			"web":     "WEB",
			"lainnya": "OTH",
		},
	}, repo, nil, logger)

	intake := NewIntakeService(IntakeDependencies{
		Sessions:   sessions,
		TicketRepo: repo,
		Allocator:  alloc,
		Dispatcher: dispatcher,
		Sender:     userSender,
		Logger:     logger,
		Metrics:    metrics,
		Policy:     policy,
	})
	intake.now = func() time.Time { return testDate }
	intake.publish = func(event events.Event) {
		_ = dispatcher.Publish(context.Background(), event)
	}

	notifier := NewNotificationService(adminSender, notifyCfg, adminIDs, logger, metrics)
	notifier.RegisterHandlers(dispatcher)

	status := NewStatusService(repo)
	router := NewConversationService(sessions, userSender, intake, status, logger, metrics)

	return &testBot{
		router:   router,
		intake:   intake,
		sessions: sessions,
		repo:     repo,
		user:     userSender,
		admin:    adminSender,
	}
}

func defaultPolicy() config.IntakeConfig {
	return config.IntakeConfig{
		RequireContext:     true,
		StrictContext:      false,
		IdleTimeoutMinutes: 30,
		SkipTokens:         []string{"skip", "lanjut"},
	}
}

func defaultNotify() config.NotifyConfig {
	return config.NotifyConfig{MaxAttempts: 3, RetryDelaySeconds: 0}
}

func textEvent(userID, text string) channel.Event {
	return channel.Event{
		UserID:          userID,
		ChatID:          userID,
		Kind:            channel.KindText,
		Text:            text,
		ReporterName:    "Alice Wong",
		MessagingHandle: "@alice123",
	}
}

func commandEvent(userID, command, args string) channel.Event {
	ev := textEvent(userID, args)
	ev.Kind = channel.KindCommand
	ev.Command = command
	return ev
}

func imageEvent(userID, fileRef string) channel.Event {
	ev := textEvent(userID, "")
	ev.Kind = channel.KindImage
	ev.EvidenceRef = fileRef
	return ev
}

func cancelEvent(userID string) channel.Event {
	ev := textEvent(userID, "")
	ev.Kind = channel.KindCancel
	return ev
}
