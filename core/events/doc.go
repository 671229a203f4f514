// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - command.*
//   - assistant.*
//   - session_state.*
//   - turn_state.*
//   - service_status.*
//
// Semantics used across the package:
//
//   - Frame: binary audio frame/chunk payload.
//   - Interim: mutable point-in-time transcript snapshot that can change.
//   - Final: terminal immutable text for the current capture.
//
// user_input events
//
//   - UserAudioFrame (user_input.audio_frame): raw microphone audio frame.
//   - UserSpeechStarted (user_input.speech_started): speech activity began.
//   - UserSpeechEnded (user_input.speech_ended): speech activity ended.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable interim transcript snapshot.
//   - UserTranscriptFinal (user_input.transcript_final): terminal transcript
//     for the capture.
//   - UserUtteranceSubmitted (user_input.utterance_submitted): typed or
//     clarification-selected text entering the dispatch pipeline.
//
// command events
//
//   - CommandDispatched (command.dispatched): utterance sent to the backend,
//     tagged with its turn id.
//   - CommandResultReceived (command.result_received): backend result applied
//     to the session.
//   - CommandResultDropped (command.result_dropped): backend result discarded
//     because its turn id is stale.
//   - CommandFailed (command.failed): dispatch failed before a result could
//     be applied; the session returned to idle.
//   - ClarificationPresented (command.clarification_presented): backend asked
//     a follow-up question with selectable options.
//   - ClarificationResolved (command.clarification_resolved): an option was
//     selected; the prompt is gone before the re-dispatch starts.
//   - HandoffRequested (command.handoff_requested): backend asked the
//     front-end to open an external URL.
//
// assistant events
//
//   - AssistantMessage (assistant.message): assistant text to render.
//   - SystemMessage (assistant.system_message): system/error text to render,
//     never vocalized.
//   - AssistantSpeechFrame (assistant.speech_frame): synthesized audio frame.
//   - AssistantPlaybackStarted (assistant.playback_started): speech playback
//     started.
//   - AssistantPlaybackEnded (assistant.playback_ended): speech playback
//     finished or was silenced.
//
// session_state events
//
//   - SessionStateChanged (session_state.changed): the controller moved to a
//     new state.
//
// turn_state events
//
//   - TurnCancelled (turn_state.cancelled): the active turn was cancelled.
//
// service_status events
//
//   - ServiceStatusUpdated (service_status.updated): connectivity of a named
//     backend service changed.
package events
