package session

import (
	"context"

	"github.com/nexusai/nexus-core/core/dispatch"
	"github.com/nexusai/nexus-core/core/events"
)

// routeResult applies exactly one backend result to the session: every
// variant produces one rendering side effect and at most one spoken response.
// Unknown variants degrade to the generic rendering, never a panic.
func (c *Controller) routeResult(ctx context.Context, result dispatch.Result) {
	switch typed := result.(type) {
	case dispatch.Clarification:
		c.setPendingClarification(typed)
		c.transcript.append(RoleAssistant, typed.Question)
		c.emitEvent(events.NewAssistantMessage(typed.Question))
		c.emitEvent(events.NewClarificationPresented(typed.Question, typed.Options))
		c.speakOrFinish(ctx, typed.VoiceResponse)

	case dispatch.UIHandoff:
		if typed.VoiceResponse != "" {
			c.transcript.append(RoleAssistant, typed.VoiceResponse)
			c.emitEvent(events.NewAssistantMessage(typed.VoiceResponse))
		}
		c.emitEvent(events.NewHandoffRequested(typed.URL, typed.VoiceResponse))
		c.speakOrFinish(ctx, typed.VoiceResponse)

	case dispatch.APIResponse:
		if c.locations != nil && (typed.Origin != "" || typed.Destination != "") {
			c.locations.Update(typed.Origin, typed.Destination)
		}
		c.transcript.append(RoleAssistant, typed.VoiceResponse)
		c.emitEvent(events.NewAssistantMessage(typed.VoiceResponse))
		c.speakOrFinish(ctx, typed.VoiceResponse)

	case dispatch.ErrorResult:
		// Backend error text is rendered, never vocalized.
		c.transcript.append(RoleSystem, typed.Message)
		c.emitEvent(events.NewSystemMessage(typed.Message))
		c.finishTurn()

	case dispatch.GenericResult:
		c.transcript.append(RoleAssistant, typed.Message)
		c.emitEvent(events.NewAssistantMessage(typed.Message))
		c.finishTurn()

	default:
		c.transcript.append(RoleAssistant, dispatch.ProcessedMessage)
		c.emitEvent(events.NewAssistantMessage(dispatch.ProcessedMessage))
		c.finishTurn()
	}
}

// speakOrFinish vocalizes the response when speech output is wired; a
// text-only session finishes the turn immediately.
func (c *Controller) speakOrFinish(ctx context.Context, text string) {
	if text != "" {
		started, err := c.speaker.Speak(ctx, text)
		if err != nil {
			logger.ErrorContext(ctx, "failed to speak response", "error", err)
		}
		if started {
			c.setState(StateSpeaking)
			return
		}
	}
	c.finishTurn()
}
