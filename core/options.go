package session

import (
	"context"

	"github.com/nexusai/nexus-core/core/audio"
	"github.com/nexusai/nexus-core/core/conversations"
	"github.com/nexusai/nexus-core/core/dispatch"
	"github.com/nexusai/nexus-core/core/speechtotext"
	"github.com/nexusai/nexus-core/core/texttospeech"
)

type ControllerOption func(*Controller)

// SpeechToText is the capture capability the controller drives. Any strategy
// satisfying it can be plugged in.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
}

func WithSpeechToTextClient(client SpeechToText) ControllerOption {
	return func(c *Controller) {
		c.speechToText.set(client)
	}
}

// TextToSpeech produces speech for one response at a time. Each spoken
// response gets its own generator so it can be cancelled independently.
type TextToSpeech interface {
	NewSpeechGenerator(ctx context.Context, opts ...texttospeech.TextToSpeechOption) (texttospeech.SpeechGenerator, error)
}

func WithTextToSpeechClient(client TextToSpeech) ControllerOption {
	return func(c *Controller) {
		c.speaker.set(client)
	}
}

type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
}

func WithAudioInput(client AudioInput) ControllerOption {
	return func(c *Controller) { c.audioInput.set(client) }
}

type AudioOutput interface {
	SendAudio(audio []byte) error
	NotifyDrained(onDrained func())
	ClearBuffer()
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) ControllerOption {
	return func(c *Controller) { c.speaker.setOutput(client) }
}

func WithDispatcher(dispatcher dispatch.Dispatcher) ControllerOption {
	return func(c *Controller) { c.dispatcher = dispatcher }
}

func WithListenMode(mode ListenMode) ControllerOption {
	return func(c *Controller) { c.listenMode = mode }
}

func WithLocationContext(locations *conversations.LocationContext) ControllerOption {
	return func(c *Controller) { c.locations = locations }
}

type RunOptions struct {
	onStateChanged         func(state State)
	onInterimTranscription func(transcript string)
	onTranscription        func(transcript string)
	onSpeakingStateChanged func(isSpeaking bool)
	onResponse             func(response string)
	onSystemMessage        func(message string)
	onClarification        func(question string, options []string)
	onHandoff              func(url, message string)
	onCancellation         func()
	onInputAudio           func(audio []byte)
	onAudio                func(audio []byte)
	onPlaybackEnded        func(spokenText string)
}

type RunOption func(*RunOptions)

// WithTranscriptionCallback registers a callback for final transcripts
// produced by the configured speech-to-text client.
func WithTranscriptionCallback(callback func(transcript string)) RunOption {
	return func(o *RunOptions) { o.onTranscription = callback }
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcripts produced by the configured speech-to-text client.
func WithInterimTranscriptionCallback(callback func(transcript string)) RunOption {
	return func(o *RunOptions) { o.onInterimTranscription = callback }
}

// WithStateChangedCallback registers a callback for controller state
// transitions.
func WithStateChangedCallback(callback func(state State)) RunOption {
	return func(o *RunOptions) { o.onStateChanged = callback }
}

// WithSpeakingStateChangedCallback registers a callback for user speech
// activity while the microphone is open.
func WithSpeakingStateChangedCallback(callback func(isSpeaking bool)) RunOption {
	return func(o *RunOptions) { o.onSpeakingStateChanged = callback }
}

// WithResponseCallback registers a callback for assistant text to render.
func WithResponseCallback(callback func(response string)) RunOption {
	return func(o *RunOptions) { o.onResponse = callback }
}

// WithSystemMessageCallback registers a callback for system and error text.
// It is rendered, never spoken.
func WithSystemMessageCallback(callback func(message string)) RunOption {
	return func(o *RunOptions) { o.onSystemMessage = callback }
}

// WithClarificationCallback registers a callback for clarification prompts.
// The prompt stays pending until an option is selected.
func WithClarificationCallback(callback func(question string, options []string)) RunOption {
	return func(o *RunOptions) { o.onClarification = callback }
}

// WithHandoffCallback registers a callback for requests to open an external
// URL in the front-end.
func WithHandoffCallback(callback func(url, message string)) RunOption {
	return func(o *RunOptions) { o.onHandoff = callback }
}

func WithCancellationCallback(callback func()) RunOption {
	return func(o *RunOptions) { o.onCancellation = callback }
}

// WithInputAudioCallback registers a callback for raw input audio chunks.
//
// The provided slice is passed through as-is (no defensive copy). The
// callback runs inline on the input-audio path and should not block.
func WithInputAudioCallback(callback func(audio []byte)) RunOption {
	return func(o *RunOptions) { o.onInputAudio = callback }
}

// WithAudioCallback registers a callback for synthesized speech audio.
func WithAudioCallback(callback func(audio []byte)) RunOption {
	return func(o *RunOptions) { o.onAudio = callback }
}

// WithPlaybackEndedCallback registers a callback for the end of response
// playback, with the text that was spoken.
func WithPlaybackEndedCallback(callback func(spokenText string)) RunOption {
	return func(o *RunOptions) { o.onPlaybackEnded = callback }
}
