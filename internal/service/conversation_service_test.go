package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

func TestIdleTextShowsMenu(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	bot.router.HandleEvent(context.Background(), textEvent("u1", "hello"))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
}

func TestUnknownCommandShowsMenu(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	bot.router.HandleEvent(context.Background(), commandEvent("u1", "frobnicate", ""))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
}

func TestExpiredSessionAnswerTreatedAsIdle(t *testing.T) {
	policy := defaultPolicy()
	policy.RequireContext = false
	// With a nanosecond idle timeout every session has expired by the
	// time the next event arrives.
	bot := newTestBotWithTimeout(policy, defaultNotify(), []int64{9001}, time.Nanosecond)
	ctx := context.Background()

	bot.router.HandleEvent(ctx, commandEvent("u1", "lapor", ""))
	time.Sleep(time.Millisecond)

	// A step-appropriate answer after expiry shows the menu instead of
	// advancing the stale step.
	bot.router.HandleEvent(ctx, textEvent("u1", "Alice"))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
	if len(bot.repo.records) != 0 {
		t.Fatal("no ticket should exist")
	}
}

func TestCorruptedStateResetsToIdleMenu(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	ctx := context.Background()

	bot.sessions.Update("u1", domain.Conversation{
		Mode: domain.ModeIntake,
		Step: domain.IntakeStep("AWAITING_NOTHING"),
	})

	bot.router.HandleEvent(ctx, textEvent("u1", "anything"))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
	if conv := bot.sessions.GetOrCreate("u1"); !conv.Idle() {
		t.Fatalf("session not reset: %+v", conv)
	}
}

func TestUnknownModeResetsToIdleMenu(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	ctx := context.Background()

	bot.sessions.Update("u1", domain.Conversation{Mode: domain.ConversationMode("HAUNTED")})

	bot.router.HandleEvent(ctx, textEvent("u1", "anything"))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
}

func TestStatusCommandWithArgumentAnswersDirectly(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	ctx := context.Background()

	bot.repo.records = append(bot.repo.records, domain.TicketRecord{
		TicketID:      "WEB-20260901-001",
		OwnerUserID:   "u1",
		ComplaintText: "Slow checkout",
		Status:        domain.TicketStatusProcessing,
		EvidenceRef:   domain.EvidenceNone,
		CreatedAt:     testDate,
	})

	bot.router.HandleEvent(ctx, commandEvent("u1", "status", "WEB-20260901-001"))
	if got := bot.user.last().Text; got == replyTicketNotFound {
		t.Fatalf("expected snapshot, got %q", got)
	}
}

func TestStatusCommandWithoutArgumentAsksForID(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	ctx := context.Background()

	bot.router.HandleEvent(ctx, commandEvent("u1", "status", ""))
	if bot.user.last().Text != replyAskTicketID {
		t.Fatalf("got %q", bot.user.last().Text)
	}

	bot.router.HandleEvent(ctx, textEvent("u1", "NOPE-123"))
	if bot.user.last().Text != replyTicketNotFound {
		t.Fatalf("got %q", bot.user.last().Text)
	}
	if bot.sessions.Len() != 0 {
		t.Fatal("status lookup session should be one-shot")
	}
}

func TestCancelWhileIdleShowsMenu(t *testing.T) {
	bot := newTestBot(defaultPolicy(), defaultNotify(), []int64{9001})
	bot.router.HandleEvent(context.Background(), cancelEvent("u1"))
	if bot.user.last().Text != replyIdleMenu {
		t.Fatalf("got %q", bot.user.last().Text)
	}
}
