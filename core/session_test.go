package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nexusai/nexus-core/core/audio"
	"github.com/nexusai/nexus-core/core/conversations"
	"github.com/nexusai/nexus-core/core/dispatch"
	"github.com/nexusai/nexus-core/core/speechtotext"
)

const testTimeout = time.Second

type speechToTextStub struct {
	mu          sync.Mutex
	options     speechtotext.TranscriptionOptions
	transcribes int
	stops       int
}

func (s *speechToTextStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	s.options = options
	s.transcribes++
	return nil
}

func (s *speechToTextStub) SendAudio([]byte) error { return nil }

func (s *speechToTextStub) StopStream() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return nil
}

func (s *speechToTextStub) fireTranscription(transcript string) {
	s.mu.Lock()
	callback := s.options.TranscriptionCallback
	s.mu.Unlock()
	if callback != nil {
		callback(transcript)
	}
}

func (s *speechToTextStub) fireError(err error) {
	s.mu.Lock()
	callback := s.options.ErrorCallback
	s.mu.Unlock()
	if callback != nil {
		callback(err)
	}
}

func (s *speechToTextStub) transcribeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcribes
}

type audioInputStub struct {
	mu      sync.Mutex
	started int
	stopped int
}

func (a *audioInputStub) StartCapture(context.Context, func(audio []byte)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started++
	return nil
}

func (a *audioInputStub) StopCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped++
	return nil
}

func (a *audioInputStub) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (a *audioInputStub) stopCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopped
}

type dispatcherStub struct {
	requests chan dispatch.Request
	respond  func(req dispatch.Request) dispatch.Result

	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newDispatcherStub(respond func(req dispatch.Request) dispatch.Result) *dispatcherStub {
	return &dispatcherStub{
		requests: make(chan dispatch.Request, 8),
		respond:  respond,
		gates:    map[string]chan struct{}{},
	}
}

// gate makes Send block for the given utterance until release is called.
func (d *dispatcherStub) gate(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gates[text] = make(chan struct{})
}

func (d *dispatcherStub) release(text string) {
	d.mu.Lock()
	gate := d.gates[text]
	d.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (d *dispatcherStub) Send(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	d.requests <- req

	d.mu.Lock()
	gate := d.gates[req.Text]
	d.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return d.respond(req), nil
}

func (d *dispatcherStub) awaitRequest(t *testing.T) dispatch.Request {
	t.Helper()
	select {
	case req := <-d.requests:
		return req
	case <-time.After(testTimeout):
		t.Fatalf("expected a dispatch request")
		return dispatch.Request{}
	}
}

func (d *dispatcherStub) expectNoRequest(t *testing.T) {
	t.Helper()
	select {
	case req := <-d.requests:
		t.Fatalf("unexpected dispatch request %+v", req)
	case <-time.After(50 * time.Millisecond):
	}
}

func awaitState(t *testing.T, states chan State, expected State) {
	t.Helper()
	for {
		select {
		case state := <-states:
			if state == expected {
				return
			}
		case <-time.After(testTimeout):
			t.Fatalf("timed out waiting for state %q", expected)
		}
	}
}

func awaitString(t *testing.T, values chan string, expected string) {
	t.Helper()
	select {
	case value := <-values:
		if value != expected {
			t.Fatalf("expected %q, got %q", expected, value)
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %q", expected)
	}
}

func TestFinalTranscriptDispatchesExactlyOnce(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "done", Success: true}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithAudioInput(input),
		WithDispatcher(dispatcher),
	)
	responses := make(chan string, 4)
	controller.Run(context.Background(), WithResponseCallback(func(response string) { responses <- response }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	if controller.State() != StateListening {
		t.Fatalf("expected listening, got %q", controller.State())
	}

	stt.fireTranscription("take me to the airport")

	req := dispatcher.awaitRequest(t)
	if req.Text != "take me to the airport" {
		t.Fatalf("unexpected request %+v", req)
	}
	dispatcher.expectNoRequest(t)
	awaitString(t, responses, "done")

	if input.stopCount() == 0 {
		t.Fatalf("expected microphone released after final transcript")
	}
}

func TestWhitespaceTranscriptIsDiscarded(t *testing.T) {
	stt := &speechToTextStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "done", Success: true}
	})

	controller := NewController(WithSpeechToTextClient(stt), WithDispatcher(dispatcher))
	controller.Run(context.Background())

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}

	stt.fireTranscription("   ")

	dispatcher.expectNoRequest(t)
	if controller.State() != StateListening {
		t.Fatalf("expected state unchanged, got %q", controller.State())
	}
}

func TestBeginCaptureWithoutStrategy(t *testing.T) {
	controller := NewController()
	controller.Run(context.Background())

	if err := controller.BeginCapture(); !errors.Is(err, ErrCaptureUnsupported) {
		t.Fatalf("expected ErrCaptureUnsupported, got %v", err)
	}
}

func TestBeginCaptureTogglesOff(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	controller := NewController(WithSpeechToTextClient(stt), WithAudioInput(input))
	controller.Run(context.Background())

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("expected toggle off to succeed, got %v", err)
	}

	if controller.State() != StateIdle {
		t.Fatalf("expected idle after toggle, got %q", controller.State())
	}
	if input.stopCount() != 1 {
		t.Fatalf("expected microphone released once, got %d", input.stopCount())
	}
}

func TestBeginCaptureRejectedWhileProcessing(t *testing.T) {
	stt := &speechToTextStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "done", Success: true}
	})
	dispatcher.gate("hold the line")

	controller := NewController(WithSpeechToTextClient(stt), WithDispatcher(dispatcher))
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("hold the line")
	awaitState(t, states, StateProcessing)

	if err := controller.BeginCapture(); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	dispatcher.release("hold the line")
}

func TestCancelDropsLateResult(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	dispatcher := newDispatcherStub(func(req dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "reply to " + req.Text, Success: true}
	})
	dispatcher.gate("first")

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithAudioInput(input),
		WithDispatcher(dispatcher),
	)
	responses := make(chan string, 4)
	cancellations := make(chan struct{}, 1)
	controller.Run(context.Background(),
		WithResponseCallback(func(response string) { responses <- response }),
		WithCancellationCallback(func() { cancellations <- struct{}{} }),
	)

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("first")
	dispatcher.awaitRequest(t)

	controller.Cancel()
	select {
	case <-cancellations:
	case <-time.After(testTimeout):
		t.Fatalf("expected cancellation callback")
	}
	if controller.State() != StateIdle {
		t.Fatalf("expected idle after cancel, got %q", controller.State())
	}

	controller.SubmitText("second")
	dispatcher.awaitRequest(t)
	awaitString(t, responses, "reply to second")

	dispatcher.release("first")
	select {
	case response := <-responses:
		t.Fatalf("expected stale result dropped, got %q", response)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelSilencesSpeechAndReleasesMicrophone(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	tts := &textToSpeechStub{}
	output := &audioOutputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.APIResponse{VoiceResponse: "The drive takes 25 minutes."}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithAudioInput(input),
		WithTextToSpeechClient(tts),
		WithAudioOutput(output),
		WithDispatcher(dispatcher),
	)
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("how long is the drive")
	awaitState(t, states, StateSpeaking)

	controller.Cancel()

	if controller.State() != StateIdle {
		t.Fatalf("expected idle after cancel, got %q", controller.State())
	}
	if output.cleared == 0 {
		t.Fatalf("expected playback buffer cleared")
	}
	if input.stopCount() == 0 {
		t.Fatalf("expected microphone released")
	}
}

func TestContinuousModeReArmsAfterPlayback(t *testing.T) {
	stt := &speechToTextStub{}
	tts := &textToSpeechStub{}
	output := &audioOutputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.APIResponse{VoiceResponse: "Sunny and 22 degrees."}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithTextToSpeechClient(tts),
		WithAudioOutput(output),
		WithDispatcher(dispatcher),
		WithListenMode(ListenModeContinuous),
	)
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("what's the weather")
	awaitState(t, states, StateSpeaking)

	generator := tts.generator(0)
	generator.emitEnded()
	output.drain()

	awaitState(t, states, StateListening)
	if stt.transcribeCount() != 2 {
		t.Fatalf("expected capture re-armed, transcribe called %d times", stt.transcribeCount())
	}
}

func TestSingleShotReturnsToIdleAfterPlayback(t *testing.T) {
	stt := &speechToTextStub{}
	tts := &textToSpeechStub{}
	output := &audioOutputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.APIResponse{VoiceResponse: "Sunny and 22 degrees."}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithTextToSpeechClient(tts),
		WithAudioOutput(output),
		WithDispatcher(dispatcher),
	)
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("what's the weather")
	awaitState(t, states, StateSpeaking)

	tts.generator(0).emitEnded()
	output.drain()

	awaitState(t, states, StateIdle)
	if stt.transcribeCount() != 1 {
		t.Fatalf("expected no re-arm in single-shot mode, transcribe called %d times", stt.transcribeCount())
	}
}

func TestContinuousModeUnspokenResultsReturnToIdle(t *testing.T) {
	stt := &speechToTextStub{}
	dispatcher := newDispatcherStub(func(req dispatch.Request) dispatch.Result {
		if req.Text == "break something" {
			return dispatch.ErrorResult{Message: dispatch.ErrorMessage}
		}
		return dispatch.GenericResult{Message: "done", Success: true}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithDispatcher(dispatcher),
		WithListenMode(ListenModeContinuous),
	)
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}
	stt.fireTranscription("break something")
	awaitState(t, states, StateIdle)
	if stt.transcribeCount() != 1 {
		t.Fatalf("expected no re-arm after an error result, transcribe called %d times", stt.transcribeCount())
	}

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture again: %v", err)
	}
	stt.fireTranscription("note something down")
	awaitState(t, states, StateIdle)
	if stt.transcribeCount() != 2 {
		t.Fatalf("expected no re-arm after a text-only result, transcribe called %d times", stt.transcribeCount())
	}
}

func TestSecondFinalFromSameCaptureIsIgnored(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "done", Success: true}
	})

	controller := NewController(
		WithSpeechToTextClient(stt),
		WithAudioInput(input),
		WithDispatcher(dispatcher),
	)
	controller.Run(context.Background())

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}

	stt.fireTranscription("first part")
	req := dispatcher.awaitRequest(t)
	if req.Text != "first part" {
		t.Fatalf("unexpected request %+v", req)
	}

	// A late flush from the same stream must not start an overlapping turn.
	stt.fireTranscription("second part")
	dispatcher.expectNoRequest(t)
}

type failingDispatcher struct {
	requests chan dispatch.Request
}

func (d *failingDispatcher) Send(_ context.Context, req dispatch.Request) (dispatch.Result, error) {
	d.requests <- req
	return nil, errors.New("dispatcher gave up")
}

func TestDispatcherErrorReturnsSessionToIdle(t *testing.T) {
	dispatcher := &failingDispatcher{requests: make(chan dispatch.Request, 1)}
	controller := NewController(WithDispatcher(dispatcher))
	states := make(chan State, 8)
	controller.Run(context.Background(), WithStateChangedCallback(func(state State) { states <- state }))

	controller.SubmitText("do the thing")

	awaitState(t, states, StateProcessing)
	awaitState(t, states, StateIdle)
}

func TestClarificationFlow(t *testing.T) {
	dispatcher := newDispatcherStub(func(req dispatch.Request) dispatch.Result {
		if req.Text == "Check my email" {
			return dispatch.Clarification{
				Question: "Which account?",
				Options:  []string{"Personal", "Work"},
			}
		}
		return dispatch.GenericResult{Message: "Checking " + req.Text, Success: true}
	})

	controller := NewController(WithDispatcher(dispatcher))
	clarifications := make(chan string, 2)
	responses := make(chan string, 4)
	controller.Run(context.Background(),
		WithClarificationCallback(func(question string, options []string) {
			if len(options) != 2 {
				t.Errorf("expected two options, got %v", options)
			}
			clarifications <- question
		}),
		WithResponseCallback(func(response string) { responses <- response }),
	)

	controller.SubmitText("Check my email")
	dispatcher.awaitRequest(t)
	awaitString(t, clarifications, "Which account?")
	awaitString(t, responses, "Which account?")

	question, options, ok := controller.PendingClarification()
	if !ok || question != "Which account?" || len(options) != 2 {
		t.Fatalf("expected pending clarification, got %q %v %v", question, options, ok)
	}

	if err := controller.SelectClarificationOption("Personal"); err != nil {
		t.Fatalf("failed to select option: %v", err)
	}
	if _, _, ok := controller.PendingClarification(); ok {
		t.Fatalf("expected clarification cleared before re-dispatch")
	}

	req := dispatcher.awaitRequest(t)
	if req.Text != "Personal" {
		t.Fatalf("expected selected option dispatched, got %q", req.Text)
	}
	awaitString(t, responses, "Checking Personal")

	if err := controller.SelectClarificationOption("Personal"); err == nil {
		t.Fatalf("expected error when no clarification is pending")
	}
}

func TestErrorResultIsNeverVocalized(t *testing.T) {
	tts := &textToSpeechStub{}
	output := &audioOutputStub{}
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.ErrorResult{Message: dispatch.ErrorMessage}
	})

	controller := NewController(
		WithTextToSpeechClient(tts),
		WithAudioOutput(output),
		WithDispatcher(dispatcher),
	)
	systemMessages := make(chan string, 2)
	controller.Run(context.Background(), WithSystemMessageCallback(func(message string) { systemMessages <- message }))

	controller.SubmitText("break something")

	awaitString(t, systemMessages, dispatch.ErrorMessage)
	if tts.generatorCount() != 0 {
		t.Fatalf("expected no speech for an error result")
	}
}

func TestDirectionsFollowUpCarriesLocationContext(t *testing.T) {
	locations := conversations.NewLocationContext()
	dispatcher := newDispatcherStub(func(req dispatch.Request) dispatch.Result {
		if req.Text == "Directions to the airport" {
			return dispatch.APIResponse{
				VoiceResponse: "Head north on Main Street.",
				Origin:        "Home",
				Destination:   "Airport",
			}
		}
		return dispatch.APIResponse{VoiceResponse: "About 25 minutes."}
	})

	controller := NewController(WithDispatcher(dispatcher), WithLocationContext(locations))
	responses := make(chan string, 4)
	controller.Run(context.Background(), WithResponseCallback(func(response string) { responses <- response }))

	controller.SubmitText("Directions to the airport")
	dispatcher.awaitRequest(t)
	awaitString(t, responses, "Head north on Main Street.")

	controller.SubmitText("How long will it take?")
	req := dispatcher.awaitRequest(t)
	if req.Origin != "Home" || req.Destination != "Airport" {
		t.Fatalf("expected remembered locations on the follow-up, got %+v", req)
	}

	controller.SubmitText("Read my latest email")
	req = dispatcher.awaitRequest(t)
	if req.Origin != "" || req.Destination != "" {
		t.Fatalf("expected no locations on an unrelated utterance, got %+v", req)
	}
}

func TestCaptureErrorRecoversToIdle(t *testing.T) {
	stt := &speechToTextStub{}
	input := &audioInputStub{}
	controller := NewController(WithSpeechToTextClient(stt), WithAudioInput(input))
	systemMessages := make(chan string, 2)
	controller.Run(context.Background(), WithSystemMessageCallback(func(message string) { systemMessages <- message }))

	if err := controller.BeginCapture(); err != nil {
		t.Fatalf("failed to begin capture: %v", err)
	}

	stt.fireError(errors.New("recognition service unreachable"))

	awaitString(t, systemMessages, captureFailedMessage)
	if controller.State() != StateIdle {
		t.Fatalf("expected idle after capture error, got %q", controller.State())
	}
	if input.stopCount() == 0 {
		t.Fatalf("expected microphone released after capture error")
	}
}

func TestSubmitTextDiscardsWhitespace(t *testing.T) {
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.GenericResult{Message: "done", Success: true}
	})
	controller := NewController(WithDispatcher(dispatcher))
	controller.Run(context.Background())

	controller.SubmitText("   \n\t ")

	dispatcher.expectNoRequest(t)
	if controller.State() != StateIdle {
		t.Fatalf("expected idle, got %q", controller.State())
	}
}

func TestTranscriptSnapshotRecordsExchange(t *testing.T) {
	dispatcher := newDispatcherStub(func(dispatch.Request) dispatch.Result {
		return dispatch.APIResponse{VoiceResponse: "Done."}
	})
	controller := NewController(WithDispatcher(dispatcher))
	responses := make(chan string, 2)
	controller.Run(context.Background(), WithResponseCallback(func(response string) { responses <- response }))

	controller.SubmitText("Play some jazz")
	awaitString(t, responses, "Done.")

	entries := controller.Transcript()
	if len(entries) != 2 {
		t.Fatalf("expected two transcript entries, got %d", len(entries))
	}
	if entries[0].Role != RoleUser || entries[0].Text != "Play some jazz" {
		t.Fatalf("unexpected user entry %+v", entries[0])
	}
	if entries[1].Role != RoleAssistant || entries[1].Text != "Done." {
		t.Fatalf("unexpected assistant entry %+v", entries[1])
	}
	if entries[0].ID == entries[1].ID || entries[0].ID == "" {
		t.Fatalf("expected distinct non-empty entry ids")
	}
}
