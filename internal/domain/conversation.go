package domain

import "time"

// ConversationMode identifies which workflow a user is currently in.
type ConversationMode string

const (
	ModeNone         ConversationMode = "NONE"
	ModeIntake       ConversationMode = "INTAKE"
	ModeStatusLookup ConversationMode = "STATUS_LOOKUP"
)

// IntakeStep enumerates the intake workflow states in collection order.
// StepContext is only entered when the deployment requires an explicit
// context choice; otherwise intake starts at StepName.
type IntakeStep string

const (
	StepNone      IntakeStep = ""
	StepContext   IntakeStep = "AWAITING_CONTEXT"
	StepName      IntakeStep = "AWAITING_NAME"
	StepHandle    IntakeStep = "AWAITING_HANDLE"
	StepComplaint IntakeStep = "AWAITING_COMPLAINT"
	StepEvidence  IntakeStep = "AWAITING_EVIDENCE"
)

// IntakeDraft accumulates the answers collected so far. Fields are filled
// strictly in step order and never overwritten within one workflow run.
type IntakeDraft struct {
	ContextInput   string
	ReporterName   string
	ReporterHandle string
	ComplaintText  string
	EvidenceRef    string
}

// Conversation is the in-memory state of one user's active workflow.
// Step is only meaningful when Mode is ModeIntake.
type Conversation struct {
	Mode         ConversationMode
	Step         IntakeStep
	Draft        IntakeDraft
	LastActivity time.Time
}

// Idle reports whether no workflow is in progress.
func (c Conversation) Idle() bool {
	return c.Mode == ModeNone || c.Mode == ""
}
