// Package allocator issues human-readable ticket identifiers of the form
// CODE-DATE-SEQ, e.g. OTH-20260901-001.
package allocator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/config"
)

const dateLayout = "20060102"

// SequenceCounter counts existing tickets whose id starts with a prefix.
// Implemented by the ticket repository.
type SequenceCounter interface {
	CountByPrefix(ctx context.Context, prefix string) (int, error)
}

// Allocator resolves context codes from free-text input and computes the
// next sequential ticket identifier for a code/date pair.
//
// In serialized mode the count-then-increment runs under a process-wide
// mutex, which makes allocation race-free within one process. In redis mode
// a per-code-per-date INCR provides cross-process atomicity, falling back
// to the serialized scan when redis is unreachable.
type Allocator struct {
	mu       sync.Mutex
	counter  SequenceCounter
	redis    *redis.Client
	logger   *zap.Logger
	mode     string
	fallback string
	aliases  map[string]string
}

// New builds an allocator. The redis client may be nil in serialized mode.
func New(cfg config.AllocatorConfig, counter SequenceCounter, redisClient *redis.Client, logger *zap.Logger) *Allocator {
	return &Allocator{
		counter:  counter,
		redis:    redisClient,
		logger:   logger,
		mode:     cfg.Mode,
		fallback: cfg.FallbackCode,
		aliases:  cfg.Aliases,
	}
}

// ResolveContext maps free-text input to a known context code,
// case-insensitively. The second return value reports whether the input
// matched; on a miss the fallback code is returned.
func (a *Allocator) ResolveContext(input string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(input))
	if code, ok := a.aliases[key]; ok {
		return code, true
	}
	return a.fallback, false
}

// FallbackCode returns the code used when no context was collected.
func (a *Allocator) FallbackCode() string {
	return a.fallback
}

// Next computes the next ticket identifier for the code and date. A
// unreadable record store yields sequence 001 rather than failing the
// intake.
func (a *Allocator) Next(ctx context.Context, code string, date time.Time) string {
	day := date.Format(dateLayout)

	if a.mode == config.AllocatorModeRedis && a.redis != nil {
		seq, err := a.redis.Incr(ctx, fmt.Sprintf("ticketseq:%s:%s", code, day)).Result()
		if err == nil {
			return formatTicketID(code, day, int(seq))
		}
		a.logger.Warn("redis sequence unavailable, falling back to scan", zap.Error(err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := code + "-" + day + "-"
	count, err := a.counter.CountByPrefix(ctx, prefix)
	if err != nil {
		a.logger.Warn("record store unreadable during allocation", zap.String("prefix", prefix), zap.Error(err))
		count = 0
	}
	return formatTicketID(code, day, count+1)
}

func formatTicketID(code, day string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", code, day, seq)
}
