package session

import "github.com/nexusai/nexus-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts RunOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.UserAudioFrame:
			if opts.onInputAudio != nil {
				opts.onInputAudio(typedEvent.Audio)
			}
		case events.UserSpeechStarted:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(true)
			}
		case events.UserSpeechEnded:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(false)
			}
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Transcript)
			}
		case events.AssistantMessage:
			if opts.onResponse != nil {
				opts.onResponse(typedEvent.Text)
			}
		case events.SystemMessage:
			if opts.onSystemMessage != nil {
				opts.onSystemMessage(typedEvent.Text)
			}
		case events.ClarificationPresented:
			if opts.onClarification != nil {
				opts.onClarification(typedEvent.Question, typedEvent.Options)
			}
		case events.HandoffRequested:
			if opts.onHandoff != nil {
				opts.onHandoff(typedEvent.URL, typedEvent.Message)
			}
		case events.AssistantSpeechFrame:
			if opts.onAudio != nil {
				opts.onAudio(typedEvent.Audio)
			}
		case events.AssistantPlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded(typedEvent.Text)
			}
		case events.SessionStateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(State(typedEvent.State))
			}
		case events.TurnCancelled:
			if opts.onCancellation != nil {
				opts.onCancellation()
			}
		}
	}
}
