package session

// State is the controller's current position in the interaction loop.
type State string

const (
	// StateIdle means nothing is happening: no capture, no dispatch, no
	// playback.
	StateIdle State = "idle"
	// StateListening means the microphone is open and audio is streaming to
	// the transcription client.
	StateListening State = "listening"
	// StateProcessing means an utterance has been dispatched and the session
	// is waiting for the backend result.
	StateProcessing State = "processing"
	// StateSpeaking means a spoken response is being synthesized or played.
	StateSpeaking State = "speaking"
)

func (s State) String() string { return string(s) }

// ListenMode selects what happens after a spoken response finishes.
type ListenMode string

const (
	// ListenModeSingleShot returns to idle after each exchange; the user
	// starts every capture explicitly.
	ListenModeSingleShot ListenMode = "single_shot"
	// ListenModeContinuous re-arms capture as soon as the response playback
	// ends, keeping the exchange hands-free.
	ListenModeContinuous ListenMode = "continuous"
)
