// Package channel defines the contract between the conversation core and
// the messaging transport. The core consumes inbound events and replies
// through a Sender; it never touches transport types directly.
package channel

import "context"

// EventKind classifies an inbound event.
type EventKind string

const (
	KindText    EventKind = "text"
	KindImage   EventKind = "image"
	KindCancel  EventKind = "cancel"
	KindCommand EventKind = "command"
)

// Event is one inbound message tagged with the sender's channel identity.
type Event struct {
	UserID string
	ChatID string
	Kind   EventKind

	// Text carries the message body for KindText and the command
	// arguments for KindCommand.
	Text string
	// Command is the command name without the leading slash.
	Command string
	// EvidenceRef is a transport-specific file reference for KindImage.
	EvidenceRef string

	// ReporterName and MessagingHandle are derived from the sender's
	// profile by the adapter.
	ReporterName    string
	MessagingHandle string
}

// Sender delivers outbound text to a chat.
type Sender interface {
	Send(ctx context.Context, chatID string, text string) error
}

// Handler processes one inbound event.
type Handler func(ctx context.Context, ev Event)
