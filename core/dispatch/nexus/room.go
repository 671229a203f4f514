package nexus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrVoiceAgentUnavailable is the fixed diagnostic surfaced whenever room
// provisioning fails, listing everything that has to be running.
var ErrVoiceAgentUnavailable = errors.New(
	"Voice agent unavailable. Make sure the backend, LiveKit server, and voice agent worker are running.")

// RoomCredentials is everything a client needs to join a provisioned
// voice-agent room.
type RoomCredentials struct {
	URL      string `json:"url"`
	Token    string `json:"token"`
	RoomName string `json:"room_name"`
}

// CreateRoom provisions a voice-agent room for the named user. Any failure
// collapses into [ErrVoiceAgentUnavailable]; the cause is recorded on the
// span, not surfaced to the user.
func (c *Client) CreateRoom(ctx context.Context, userName string) (RoomCredentials, error) {
	ctx, span := tracer.Start(ctx, "create voice agent room")
	defer span.End()

	if c.voiceAgentURL == "" {
		return RoomCredentials{}, ErrVoiceAgentUnavailable
	}

	raw, err := c.post(ctx, c.voiceAgentURL+"/livekit/create-room", map[string]string{
		"user_name": userName,
	})
	if err != nil {
		span.RecordError(fmt.Errorf("room provisioning failed: %w", err))
		logger.ErrorContext(ctx, "room provisioning failed", "error", err)
		return RoomCredentials{}, ErrVoiceAgentUnavailable
	}

	var credentials RoomCredentials
	if err := json.Unmarshal(raw, &credentials); err != nil {
		span.RecordError(fmt.Errorf("failed to decode room credentials: %w", err))
		return RoomCredentials{}, ErrVoiceAgentUnavailable
	}

	if credentials.URL == "" || credentials.Token == "" {
		return RoomCredentials{}, ErrVoiceAgentUnavailable
	}

	return credentials, nil
}
