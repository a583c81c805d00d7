package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

func TestGetOrCreateReturnsFreshState(t *testing.T) {
	store := NewStore(30 * time.Minute)
	conv := store.GetOrCreate("user-1")
	if !conv.Idle() {
		t.Fatalf("new session should be idle, got mode %q", conv.Mode)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d", store.Len())
	}
}

func TestUpdatePersistsState(t *testing.T) {
	store := NewStore(30 * time.Minute)
	conv := store.GetOrCreate("user-1")
	conv.Mode = domain.ModeIntake
	conv.Step = domain.StepName
	conv.Draft.ContextInput = "website"
	store.Update("user-1", conv)

	got := store.GetOrCreate("user-1")
	if got.Mode != domain.ModeIntake || got.Step != domain.StepName {
		t.Fatalf("state not persisted: %+v", got)
	}
	if got.Draft.ContextInput != "website" {
		t.Fatalf("draft not persisted: %+v", got.Draft)
	}
}

func TestIdleSessionDiscardedLazily(t *testing.T) {
	store := NewStore(30 * time.Minute)
	current := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	conv := store.GetOrCreate("user-1")
	conv.Mode = domain.ModeIntake
	conv.Step = domain.StepComplaint
	conv.Draft.ReporterName = "Alice"
	store.Update("user-1", conv)

	// Just inside the timeout the session survives.
	current = current.Add(29 * time.Minute)
	if got := store.GetOrCreate("user-1"); got.Mode != domain.ModeIntake {
		t.Fatalf("session expired too early: %+v", got)
	}

	// Past the timeout the next event sees a fresh idle session.
	current = current.Add(2 * time.Minute)
	got := store.GetOrCreate("user-1")
	if !got.Idle() {
		t.Fatalf("expected expired session to reset, got %+v", got)
	}
	if got.Draft.ReporterName != "" {
		t.Fatalf("expected collected fields discarded, got %+v", got.Draft)
	}
}

func TestClearRemovesEntry(t *testing.T) {
	store := NewStore(30 * time.Minute)
	store.GetOrCreate("user-1")
	store.Clear("user-1")
	if store.Len() != 0 {
		t.Fatalf("Len = %d after Clear", store.Len())
	}
}

func TestConcurrentAccessDistinctKeys(t *testing.T) {
	store := NewStore(30 * time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			for j := 0; j < 20; j++ {
				conv := store.GetOrCreate(userID)
				conv.Mode = domain.ModeIntake
				conv.Step = domain.StepName
				conv.Draft.ReporterName = userID
				store.Update(userID, conv)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Fatalf("Len = %d", store.Len())
	}
	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("user-%d", i)
		if got := store.GetOrCreate(userID); got.Draft.ReporterName != userID {
			t.Fatalf("cross-key corruption for %s: %+v", userID, got)
		}
	}
}
