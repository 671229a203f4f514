package events

const (
	// KindAssistantMessage identifies assistant text to render.
	KindAssistantMessage Kind = "assistant.message"
	// KindSystemMessage identifies system or error text to render.
	KindSystemMessage Kind = "assistant.system_message"
	// KindAssistantSpeechFrame identifies a synthesized speech audio frame.
	KindAssistantSpeechFrame Kind = "assistant.speech_frame"
	// KindAssistantPlaybackStarted identifies the start of speech playback.
	KindAssistantPlaybackStarted Kind = "assistant.playback_started"
	// KindAssistantPlaybackEnded identifies the end of speech playback.
	KindAssistantPlaybackEnded Kind = "assistant.playback_ended"
)

// AssistantMessage carries assistant text to render.
type AssistantMessage struct {
	Base
	Text string
}

// NewAssistantMessage creates an assistant message event.
func NewAssistantMessage(text string) AssistantMessage {
	return AssistantMessage{Base: NewBase(KindAssistantMessage), Text: text}
}

// SystemMessage carries system or error text. It is rendered but never
// vocalized.
type SystemMessage struct {
	Base
	Text string
}

// NewSystemMessage creates a system message event.
func NewSystemMessage(text string) SystemMessage {
	return SystemMessage{Base: NewBase(KindSystemMessage), Text: text}
}

// AssistantSpeechFrame carries a synthesized speech audio frame.
type AssistantSpeechFrame struct {
	Base
	Audio []byte
}

// NewAssistantSpeechFrame creates an assistant speech frame event.
func NewAssistantSpeechFrame(audio []byte) AssistantSpeechFrame {
	return AssistantSpeechFrame{Base: NewBase(KindAssistantSpeechFrame), Audio: audio}
}

// AssistantPlaybackStarted marks the start of assistant speech playback.
type AssistantPlaybackStarted struct{ Base }

// NewAssistantPlaybackStarted creates an assistant playback started event.
func NewAssistantPlaybackStarted() AssistantPlaybackStarted {
	return AssistantPlaybackStarted{Base: NewBase(KindAssistantPlaybackStarted)}
}

// AssistantPlaybackEnded marks the end of assistant speech playback. Text is
// the utterance that finished or was silenced.
type AssistantPlaybackEnded struct {
	Base
	Text string
}

// NewAssistantPlaybackEnded creates an assistant playback ended event.
func NewAssistantPlaybackEnded(text string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Text: text}
}
