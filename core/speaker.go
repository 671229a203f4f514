package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusai/nexus-core/core/events"
	"github.com/nexusai/nexus-core/core/texttospeech"
)

// speaker is the speech output facade. Speaking is last-write-wins: a new
// Speak silences whatever is in flight before starting, there is no queue.
type speaker struct {
	client TextToSpeech
	output AudioOutput

	mu        sync.Mutex
	generator texttospeech.SpeechGenerator
	// sequence identifies the current utterance; callbacks from a silenced
	// generator carry a stale sequence and are ignored.
	sequence int64

	emitEvent eventEmitter

	// onPlaybackFinished is the controller's hook for the state transition
	// out of speaking.
	onPlaybackFinished func(spokenText string)
}

func newSpeaker() *speaker {
	return &speaker{
		emitEvent:          noopEventEmitter,
		onPlaybackFinished: func(string) {},
	}
}

func (s *speaker) set(client TextToSpeech) {
	if s != nil {
		s.client = client
	}
}

func (s *speaker) setOutput(output AudioOutput) {
	if s != nil {
		s.output = output
	}
}

func (s *speaker) setEventEmitter(emitEvent eventEmitter) {
	if s != nil {
		if emitEvent != nil {
			s.emitEvent = emitEvent
		} else {
			s.emitEvent = noopEventEmitter
		}
	}
}

func (s *speaker) setPlaybackFinishedCallback(callback func(spokenText string)) {
	if s != nil && callback != nil {
		s.onPlaybackFinished = callback
	}
}

func (s *speaker) isConfigured() bool {
	return s != nil && s.client != nil
}

// Speak synthesizes text after stripping markdown. It reports whether speech
// actually started: without a synthesis client, or with nothing left to say
// after stripping, the response stays text-only.
func (s *speaker) Speak(ctx context.Context, text string) (bool, error) {
	if !s.isConfigured() {
		return false, nil
	}

	spoken := texttospeech.StripMarkdown(text)
	if spoken == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.silenceLocked()
	s.sequence++
	sequence := s.sequence

	generator, err := s.client.NewSpeechGenerator(ctx,
		texttospeech.WithSpeechAudioCallback(func(audio []byte) {
			if !s.isCurrent(sequence) {
				return
			}
			s.emitEvent(events.NewAssistantSpeechFrame(audio))
			if s.output != nil {
				if err := s.output.SendAudio(audio); err != nil {
					logger.Error("failed to send speech audio to output", "error", err)
				}
			}
		}),
		texttospeech.WithSpeechEndedCallback(func() {
			s.finishPlayback(sequence, spoken)
		}),
		texttospeech.WithErrorCallback(func(err error) {
			logger.Error("speech generation failed", "error", err)
		}),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create speech generator: %w", err)
	}

	s.generator = generator
	s.emitEvent(events.NewAssistantPlaybackStarted())

	if err := generator.SendText(spoken); err != nil {
		return false, fmt.Errorf("failed to send text to speech generator: %w", err)
	}
	if err := generator.EndOfText(); err != nil {
		return false, fmt.Errorf("failed to finish speech generator text: %w", err)
	}

	return true, nil
}

// finishPlayback runs once generation ends: it waits for the output buffer
// to drain (when there is one) and then reports playback as finished, unless
// a newer utterance took over in the meantime.
func (s *speaker) finishPlayback(sequence int64, spokenText string) {
	finished := func() {
		if !s.isCurrent(sequence) {
			return
		}
		s.emitEvent(events.NewAssistantPlaybackEnded(spokenText))
		s.onPlaybackFinished(spokenText)
	}

	if s.output != nil {
		s.output.NotifyDrained(finished)
		return
	}
	finished()
}

func (s *speaker) isCurrent(sequence int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequence == sequence
}

// Silence stops the in-flight utterance immediately. No playback-finished
// notification fires for silenced speech.
func (s *speaker) Silence() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	s.silenceLocked()
}

func (s *speaker) silenceLocked() {
	if s.generator != nil {
		if err := s.generator.Cancel(); err != nil {
			logger.Error("failed to cancel speech generator", "error", err)
		}
		s.generator = nil
	}
	if s.output != nil {
		s.output.ClearBuffer()
	}
}

// Close silences the speaker. The audio output device itself is owned and
// closed by the controller, it may be the same device as the audio input.
func (s *speaker) Close(context.Context) error {
	if s == nil {
		return nil
	}

	s.Silence()
	return nil
}
