package dispatch

import "context"

// Fixed user-facing messages. The error message is surfaced verbatim whenever
// a dispatch fails, the processed message whenever the backend reply matches
// no known shape.
const (
	ErrorMessage     = "Sorry, I encountered an error. Please try again."
	ProcessedMessage = "Command processed."
)

// Result is the classified backend reply. Exactly one concrete variant is
// produced per dispatch and it is consumed exactly once by the session.
type Result interface {
	isResult()
}

// Clarification asks the user a follow-up question with selectable options.
type Clarification struct {
	Question      string
	Options       []string
	VoiceResponse string
}

// UIHandoff asks the front-end to open an external URL.
type UIHandoff struct {
	URL           string
	VoiceResponse string
}

// APIResponse carries a completed action's reply, rendered and vocalized.
type APIResponse struct {
	VoiceResponse string
	Origin        string
	Destination   string
}

// ErrorResult carries a failure message. It is rendered but never vocalized
// with the raw backend error text.
type ErrorResult struct {
	Message string
}

// GenericResult is the legacy {success, message} reply shape and the terminal
// fallback for unrecognized replies.
type GenericResult struct {
	Message string
	Success bool
}

func (Clarification) isResult() {}
func (UIHandoff) isResult()     {}
func (APIResponse) isResult()   {}
func (ErrorResult) isResult()   {}
func (GenericResult) isResult() {}

// Request is one utterance headed for the backend. Origin and Destination
// carry remembered location context for directions-style utterances.
type Request struct {
	Text        string
	Origin      string
	Destination string
}

// Dispatcher sends an utterance to the backend and returns the classified
// result. Implementations perform a single attempt: transport failures and
// non-success statuses come back as an [ErrorResult], not a Go error. The
// error return is reserved for context cancellation.
type Dispatcher interface {
	Send(ctx context.Context, req Request) (Result, error)
}
