package domain

import "time"

// TicketStatus enumerates lifecycle states for complaint tickets. The bot
// only ever creates tickets in Processing; subsequent transitions happen
// through the admin API.
type TicketStatus string

const (
	TicketStatusProcessing           TicketStatus = "PROCESSING"
	TicketStatusAwaitingConfirmation TicketStatus = "AWAITING_CONFIRMATION"
	TicketStatusResolved             TicketStatus = "RESOLVED"
	TicketStatusRejected             TicketStatus = "REJECTED"
)

// EvidenceNone is stored when the reporter skipped the evidence step.
const EvidenceNone = "-"

// TicketRecord is the complaint record appended by the bot. Records are
// immutable after creation except for Status, which only the admin API
// mutates.
type TicketRecord struct {
	TicketID        string
	ContextCode     string
	ReporterName    string
	ReporterHandle  string
	MessagingHandle string
	OwnerUserID     string
	ComplaintText   string
	EvidenceRef     string
	Status          TicketStatus
	CreatedAt       time.Time
}

// HasEvidence reports whether the reporter attached evidence.
func (t *TicketRecord) HasEvidence() bool {
	return t.EvidenceRef != "" && t.EvidenceRef != EvidenceNone
}

var allowedStatusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusProcessing:           {TicketStatusAwaitingConfirmation, TicketStatusResolved, TicketStatusRejected},
	TicketStatusAwaitingConfirmation: {TicketStatusResolved, TicketStatusRejected},
	TicketStatusResolved:             {},
	TicketStatusRejected:             {},
}

// ValidStatusTransition reports whether an admin may move a ticket from
// current to next.
func ValidStatusTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedStatusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseTicketStatus validates a raw status value.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(raw) {
	case TicketStatusProcessing, TicketStatusAwaitingConfirmation, TicketStatusResolved, TicketStatusRejected:
		return TicketStatus(raw), true
	}
	return "", false
}
