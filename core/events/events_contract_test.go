package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user audio frame", event: NewUserAudioFrame([]byte{1}), expected: KindUserAudioFrame},
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "user speech ended", event: NewUserSpeechEnded(), expected: KindUserSpeechEnded},
		{name: "user interim updated", event: NewUserTranscriptInterimUpdated("text"), expected: KindUserTranscriptInterimUpdated},
		{name: "user transcript final", event: NewUserTranscriptFinal("text"), expected: KindUserTranscriptFinal},
		{name: "user utterance submitted", event: NewUserUtteranceSubmitted("text"), expected: KindUserUtteranceSubmitted},
		{name: "command dispatched", event: NewCommandDispatched(1, "text"), expected: KindCommandDispatched},
		{name: "command result received", event: NewCommandResultReceived(1), expected: KindCommandResultReceived},
		{name: "command result dropped", event: NewCommandResultDropped(1), expected: KindCommandResultDropped},
		{name: "command failed", event: NewCommandFailed(1, "msg"), expected: KindCommandFailed},
		{name: "clarification presented", event: NewClarificationPresented("q", []string{"a"}), expected: KindClarificationPresented},
		{name: "clarification resolved", event: NewClarificationResolved("a"), expected: KindClarificationResolved},
		{name: "handoff requested", event: NewHandoffRequested("https://example.com", "msg"), expected: KindHandoffRequested},
		{name: "assistant message", event: NewAssistantMessage("text"), expected: KindAssistantMessage},
		{name: "system message", event: NewSystemMessage("text"), expected: KindSystemMessage},
		{name: "assistant speech frame", event: NewAssistantSpeechFrame([]byte{1}), expected: KindAssistantSpeechFrame},
		{name: "assistant playback started", event: NewAssistantPlaybackStarted(), expected: KindAssistantPlaybackStarted},
		{name: "assistant playback ended", event: NewAssistantPlaybackEnded("text"), expected: KindAssistantPlaybackEnded},
		{name: "session state changed", event: NewSessionStateChanged("idle"), expected: KindSessionStateChanged},
		{name: "turn cancelled", event: NewTurnCancelled(), expected: KindTurnCancelled},
		{name: "service status updated", event: NewServiceStatusUpdated("gmail", true), expected: KindServiceStatusUpdated},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestResultReceivedAndDroppedKindsAreDistinct(t *testing.T) {
	received := NewCommandResultReceived(1)
	dropped := NewCommandResultDropped(1)

	if received.Kind() == dropped.Kind() {
		t.Fatalf("expected result received and dropped kinds to differ, both were %q", received.Kind())
	}
}
