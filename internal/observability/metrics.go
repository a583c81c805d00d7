package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for bot and admin API activity.
type Metrics struct {
	mu            sync.Mutex
	eventCount    map[string]int64
	ticketCount   int64
	notifyCount   map[string]int64
	requestCount  map[string]int64
	apiErrorCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		eventCount:    make(map[string]int64),
		notifyCount:   make(map[string]int64),
		requestCount:  make(map[string]int64),
		apiErrorCount: make(map[string]int64),
	}
}

// RecordEvent counts an inbound channel event by kind.
func (m *Metrics) RecordEvent(kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[kind]++
}

// RecordTicketCreated counts a successfully persisted ticket.
func (m *Metrics) RecordTicketCreated() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketCount++
}

// RecordNotification counts a per-recipient delivery outcome.
func (m *Metrics) RecordNotification(delivered bool) {
	if m == nil {
		return
	}
	key := "failed"
	if delivered {
		key = "delivered"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyCount[key]++
}

// RecordRequest increments counters for admin API requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments admin API error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiErrorCount[key]++
}

// TicketsCreated returns the total persisted ticket count.
func (m *Metrics) TicketsCreated() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticketCount
}
