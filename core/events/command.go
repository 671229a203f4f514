package events

const (
	// KindCommandDispatched identifies an utterance sent to the backend.
	KindCommandDispatched Kind = "command.dispatched"
	// KindCommandResultReceived identifies a backend result applied to the session.
	KindCommandResultReceived Kind = "command.result_received"
	// KindCommandResultDropped identifies a backend result discarded as stale.
	KindCommandResultDropped Kind = "command.result_dropped"
	// KindCommandFailed identifies a failed dispatch.
	KindCommandFailed Kind = "command.failed"
	// KindClarificationPresented identifies a clarification prompt shown to the user.
	KindClarificationPresented Kind = "command.clarification_presented"
	// KindClarificationResolved identifies a clarification option selection.
	KindClarificationResolved Kind = "command.clarification_resolved"
	// KindHandoffRequested identifies a request to open an external URL.
	KindHandoffRequested Kind = "command.handoff_requested"
)

// CommandDispatched marks an utterance leaving for the backend.
type CommandDispatched struct {
	Base
	TurnID int64
	Text   string
}

// NewCommandDispatched creates a command dispatched event.
func NewCommandDispatched(turnID int64, text string) CommandDispatched {
	return CommandDispatched{Base: NewBase(KindCommandDispatched), TurnID: turnID, Text: text}
}

// CommandResultReceived marks a backend result that was applied.
type CommandResultReceived struct {
	Base
	TurnID int64
}

// NewCommandResultReceived creates a command result received event.
func NewCommandResultReceived(turnID int64) CommandResultReceived {
	return CommandResultReceived{Base: NewBase(KindCommandResultReceived), TurnID: turnID}
}

// CommandResultDropped marks a backend result discarded because a newer turn
// has started since it was dispatched.
type CommandResultDropped struct {
	Base
	TurnID int64
}

// NewCommandResultDropped creates a command result dropped event.
func NewCommandResultDropped(turnID int64) CommandResultDropped {
	return CommandResultDropped{Base: NewBase(KindCommandResultDropped), TurnID: turnID}
}

// CommandFailed marks a dispatch failure surfaced as a synthetic error result.
type CommandFailed struct {
	Base
	TurnID  int64
	Message string
}

// NewCommandFailed creates a command failed event.
func NewCommandFailed(turnID int64, message string) CommandFailed {
	return CommandFailed{Base: NewBase(KindCommandFailed), TurnID: turnID, Message: message}
}

// ClarificationPresented carries a clarification question and its options.
type ClarificationPresented struct {
	Base
	Question string
	Options  []string
}

// NewClarificationPresented creates a clarification presented event.
func NewClarificationPresented(question string, options []string) ClarificationPresented {
	return ClarificationPresented{Base: NewBase(KindClarificationPresented), Question: question, Options: options}
}

// ClarificationResolved marks selection of a clarification option.
type ClarificationResolved struct {
	Base
	Option string
}

// NewClarificationResolved creates a clarification resolved event.
func NewClarificationResolved(option string) ClarificationResolved {
	return ClarificationResolved{Base: NewBase(KindClarificationResolved), Option: option}
}

// HandoffRequested carries an external URL the front-end should open.
type HandoffRequested struct {
	Base
	URL     string
	Message string
}

// NewHandoffRequested creates a handoff requested event.
func NewHandoffRequested(url, message string) HandoffRequested {
	return HandoffRequested{Base: NewBase(KindHandoffRequested), URL: url, Message: message}
}
