// Package session drives one voice interaction loop: capture an utterance,
// dispatch it to the backend, render and speak the result.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nexusai/nexus-core/core/conversations"
	"github.com/nexusai/nexus-core/core/dispatch"
	"github.com/nexusai/nexus-core/core/events"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const captureFailedMessage = "Speech recognition failed. Please try again."

// Controller owns the session state machine. It is idle until capture starts
// or text is submitted, then walks listening, processing and speaking before
// returning to idle (or re-arming capture in continuous mode).
type Controller struct {
	dispatcher dispatch.Dispatcher
	listenMode ListenMode
	locations  *conversations.LocationContext

	// speechToText is the STT facade used to handle optional client wiring.
	speechToText *speechToText
	// audioInput is the input facade used to normalize capture behavior.
	audioInput *audioInput
	speaker    *speaker

	emitEvent eventEmitter

	stateMu sync.Mutex
	state   State

	// turnID tags every dispatch; results carrying a stale id are dropped
	// without side effects.
	turnID atomic.Int64
	// captureGeneration invalidates transcript callbacks from a capture that
	// was cancelled or superseded.
	captureGeneration atomic.Int64

	pendingMu            sync.Mutex
	pendingClarification *dispatch.Clarification

	transcript transcriptLog

	baseContext context.Context
	closeOnce   sync.Once
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		listenMode:  ListenModeSingleShot,
		state:       StateIdle,
		emitEvent:   noopEventEmitter,
		baseContext: context.Background(),
	}

	c.speechToText = newSpeechToText(nil)
	c.audioInput = newAudioInput(nil)
	c.speaker = newSpeaker()

	for _, opt := range opts {
		opt(c)
	}

	c.speaker.setPlaybackFinishedCallback(c.playbackFinished)

	return c
}

// Run wires the session callbacks and binds the controller to ctx. The
// controller closes itself when ctx is cancelled.
//
// Contract: call Run at most once per controller instance.
func (c *Controller) Run(ctx context.Context, opts ...RunOption) {
	runOptions := RunOptions{}
	for _, opt := range opts {
		opt(&runOptions)
	}

	c.baseContext = ctx
	c.emitEvent = newCallbackEventEmitter(runOptions)
	c.speechToText.setEventEmitter(c.emitEvent)
	c.audioInput.setEventEmitter(c.emitEvent)
	c.speaker.setEventEmitter(c.emitEvent)

	go func() {
		<-ctx.Done()
		c.Close()
	}()
}

func (c *Controller) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Controller) setState(next State) {
	c.stateMu.Lock()
	if c.state == next {
		c.stateMu.Unlock()
		return
	}
	c.state = next
	c.stateMu.Unlock()

	c.emitEvent(events.NewSessionStateChanged(string(next)))
}

// Transcript returns a point-in-time snapshot of everything the session has
// rendered.
func (c *Controller) Transcript() []Entry {
	return c.transcript.Snapshot()
}

// BeginCapture opens the microphone, or closes it when the session is
// already listening (push-to-talk toggle). It fails with
// [ErrCaptureUnsupported] when no capture strategy is configured and with
// [ErrAlreadyActive] while a turn is being processed or spoken.
func (c *Controller) BeginCapture() error {
	switch c.State() {
	case StateProcessing, StateSpeaking:
		return ErrAlreadyActive
	case StateListening:
		return c.stopCapture()
	}

	if !c.speechToText.isConfigured() {
		return ErrCaptureUnsupported
	}

	return c.armCapture()
}

func (c *Controller) armCapture() error {
	generation := c.captureGeneration.Add(1)

	if err := c.speechToText.start(
		c.baseContext,
		c.audioInput.EncodingInfo(),
		func(transcript string) { c.handleFinalTranscript(generation, transcript) },
		func(err error) { c.handleCaptureError(generation, err) },
	); err != nil {
		return fmt.Errorf("failed to arm transcription: %w", err)
	}

	if err := c.audioInput.StartCapture(c.baseContext, func(chunk []byte) {
		if err := c.speechToText.SendAudio(chunk); err != nil {
			logger.Error("failed to forward captured audio", "error", err)
		}
	}); err != nil {
		_ = c.speechToText.StopStream()
		return fmt.Errorf("failed to open microphone: %w", err)
	}

	c.setState(StateListening)
	return nil
}

// stopCapture releases the microphone and asks the transcription client to
// flush. A final transcript may still arrive afterwards and dispatch.
func (c *Controller) stopCapture() error {
	if err := c.audioInput.StopCapture(); err != nil {
		logger.Error("failed to release microphone", "error", err)
	}
	if err := c.speechToText.StopStream(); err != nil {
		logger.Error("failed to stop transcription stream", "error", err)
	}

	c.setState(StateIdle)
	return nil
}

func (c *Controller) handleFinalTranscript(generation int64, transcript string) {
	if generation != c.captureGeneration.Load() {
		return
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return
	}

	// One final transcript per capture: invalidating the generation here
	// keeps a late flush from the same stream from dispatching a second
	// overlapping turn.
	if !c.captureGeneration.CompareAndSwap(generation, generation+1) {
		return
	}

	// The capture served its purpose, release the microphone before the
	// dispatch starts.
	if err := c.audioInput.StopCapture(); err != nil {
		logger.Error("failed to release microphone", "error", err)
	}
	if err := c.speechToText.StopStream(); err != nil {
		logger.Error("failed to stop transcription stream", "error", err)
	}

	c.transcript.append(RoleUser, transcript)
	c.dispatchUtterance(transcript)
}

func (c *Controller) handleCaptureError(generation int64, err error) {
	if generation != c.captureGeneration.Load() {
		return
	}
	c.captureGeneration.Add(1)

	if stopErr := c.audioInput.StopCapture(); stopErr != nil {
		logger.Error("failed to release microphone", "error", stopErr)
	}

	recordedErr := fmt.Errorf("speech capture failed: %w", err)
	span := trace.SpanFromContext(c.baseContext)
	span.RecordError(recordedErr)
	span.SetStatus(codes.Error, recordedErr.Error())

	c.transcript.append(RoleSystem, captureFailedMessage)
	c.emitEvent(events.NewSystemMessage(captureFailedMessage))
	c.setState(StateIdle)
}

// SubmitText sends a typed utterance through the same pipeline as speech.
// Whitespace-only input is discarded. A submission supersedes whatever the
// session was doing: in-flight speech is silenced and an open capture is
// abandoned.
func (c *Controller) SubmitText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.captureGeneration.Add(1)
	c.speaker.Silence()
	if err := c.audioInput.StopCapture(); err != nil {
		logger.Error("failed to release microphone", "error", err)
	}
	if err := c.speechToText.StopStream(); err != nil {
		logger.Error("failed to stop transcription stream", "error", err)
	}

	c.emitEvent(events.NewUserUtteranceSubmitted(text))
	c.transcript.append(RoleUser, text)
	c.dispatchUtterance(text)
}

// PendingClarification returns the open clarification prompt, if any.
func (c *Controller) PendingClarification() (question string, options []string, ok bool) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.pendingClarification == nil {
		return "", nil, false
	}
	return c.pendingClarification.Question, c.pendingClarification.Options, true
}

func (c *Controller) setPendingClarification(clarification dispatch.Clarification) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.pendingClarification = &clarification
}

func (c *Controller) clearPendingClarification() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.pendingClarification = nil
}

// SelectClarificationOption answers the pending clarification. The prompt is
// gone before the selected option re-enters the pipeline as a fresh
// utterance with its own turn.
func (c *Controller) SelectClarificationOption(option string) error {
	c.pendingMu.Lock()
	pending := c.pendingClarification
	c.pendingClarification = nil
	c.pendingMu.Unlock()

	if pending == nil {
		return fmt.Errorf("no clarification pending")
	}

	c.emitEvent(events.NewClarificationResolved(option))
	c.emitEvent(events.NewUserUtteranceSubmitted(option))
	c.transcript.append(RoleUser, option)
	c.dispatchUtterance(option)
	return nil
}

func (c *Controller) dispatchUtterance(text string) {
	if c.dispatcher == nil {
		c.transcript.append(RoleSystem, dispatch.ErrorMessage)
		c.emitEvent(events.NewSystemMessage(dispatch.ErrorMessage))
		c.setState(StateIdle)
		return
	}

	c.clearPendingClarification()

	turnID := c.turnID.Add(1)
	c.setState(StateProcessing)
	c.emitEvent(events.NewCommandDispatched(turnID, text))
	turnsDispatched.Add(c.baseContext, 1)

	req := dispatch.Request{Text: text}
	if c.locations != nil && c.locations.IsSet() && conversations.IsDirectionsQuery(text) {
		req.Origin, req.Destination = c.locations.Get()
	}

	go func() {
		ctx, span := tracer.Start(c.baseContext, "dispatch utterance")
		defer span.End()

		result, err := c.dispatcher.Send(ctx, req)
		if err != nil {
			recordedErr := fmt.Errorf("dispatch aborted: %w", err)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())

			// The error return is reserved for context cancellation, but a
			// dispatcher that fails the current turn must not leave the
			// session stuck in processing.
			if turnID == c.turnID.Load() {
				c.emitEvent(events.NewCommandFailed(turnID, err.Error()))
				c.setState(StateIdle)
			}
			return
		}

		if turnID != c.turnID.Load() {
			c.emitEvent(events.NewCommandResultDropped(turnID))
			return
		}

		c.emitEvent(events.NewCommandResultReceived(turnID))
		c.routeResult(ctx, result)
	}()
}

// finishTurn runs once a turn has nothing left to play. The session returns
// to idle; only finished playback hands the microphone back, so error and
// text-only turns never re-open the capture on their own.
func (c *Controller) finishTurn() {
	c.setState(StateIdle)
}

func (c *Controller) playbackFinished(string) {
	if c.State() != StateSpeaking {
		return
	}

	if c.listenMode == ListenModeContinuous && c.speechToText.isConfigured() {
		if err := c.armCapture(); err != nil {
			logger.Error("failed to re-arm capture", "error", err)
			c.setState(StateIdle)
		}
		return
	}
	c.setState(StateIdle)
}

// Cancel abandons whatever the session is doing: capture stops, in-flight
// speech is silenced and any late backend result is dropped by its stale
// turn id. Safe to call from any state.
func (c *Controller) Cancel() {
	c.turnID.Add(1)
	c.captureGeneration.Add(1)

	c.speaker.Silence()
	if err := c.audioInput.StopCapture(); err != nil {
		logger.Error("failed to release microphone", "error", err)
	}
	if err := c.speechToText.StopStream(); err != nil {
		logger.Error("failed to stop transcription stream", "error", err)
	}

	c.setState(StateIdle)
	c.emitEvent(events.NewTurnCancelled())
}

// Close releases the microphone and audio devices. Safe to call repeatedly.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.turnID.Add(1)
		c.captureGeneration.Add(1)
		c.speaker.Silence()

		if err := c.audioInput.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close audio input: %w", err)
			span := trace.SpanFromContext(c.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := c.speechToText.Close(c.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
			span := trace.SpanFromContext(c.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		// The output device may be the same duplex client as the input, in
		// which case the input facade already closed it.
		if c.speaker.output != nil && any(c.speaker.output) != any(c.audioInput.client) {
			switch out := c.speaker.output.(type) {
			case interface{ Close() error }:
				if err := out.Close(); err != nil {
					recordedErr := fmt.Errorf("failed to close audio output: %w", err)
					span := trace.SpanFromContext(c.baseContext)
					span.RecordError(recordedErr)
					span.SetStatus(codes.Error, recordedErr.Error())
				}
			case interface{ Close() }:
				out.Close()
			}
		}
	})
}
