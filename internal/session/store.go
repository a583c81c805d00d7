// Package session holds the in-memory conversation state for each active
// user. State is deliberately ephemeral: it is lost on restart and expired
// lazily on the next event rather than by a background sweep.
package session

import (
	"sync"
	"time"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

// Store is a concurrent map of user id to conversation state. Values are
// copied in and out so a reader can never observe a torn write for another
// user's key.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]domain.Conversation
	idleTimeout time.Duration
	now         func() time.Time
}

// NewStore creates a store with the given idle timeout.
func NewStore(idleTimeout time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]domain.Conversation),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// GetOrCreate returns the current conversation for userID. A session idle
// past the timeout is discarded and replaced with a fresh idle one.
func (s *Store) GetOrCreate(userID string) domain.Conversation {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[userID]
	if ok && now.Sub(conv.LastActivity) <= s.idleTimeout {
		return conv
	}

	fresh := domain.Conversation{Mode: domain.ModeNone, LastActivity: now}
	s.sessions[userID] = fresh
	return fresh
}

// Update replaces the stored state and refreshes its activity timestamp.
func (s *Store) Update(userID string, conv domain.Conversation) {
	conv.LastActivity = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = conv
}

// Clear removes the entry entirely.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len reports how many sessions are currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
