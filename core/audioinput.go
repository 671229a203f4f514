package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusai/nexus-core/core/audio"
	"github.com/nexusai/nexus-core/core/events"
)

// audioInput is the capture facade. It normalizes optional wiring: with no
// client configured every call is a no-op, which keeps the controller free of
// nil checks.
type audioInput struct {
	client AudioInput

	mu        sync.Mutex
	capturing bool

	emitEvent eventEmitter
}

func newAudioInput(client AudioInput) *audioInput {
	return &audioInput{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (a *audioInput) set(client AudioInput) {
	if a != nil {
		a.client = client
	}
}

func (a *audioInput) setEventEmitter(emitEvent eventEmitter) {
	if a != nil {
		if emitEvent != nil {
			a.emitEvent = emitEvent
		} else {
			a.emitEvent = noopEventEmitter
		}
	}
}

func (a *audioInput) isConfigured() bool {
	return a != nil && a.client != nil
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}
	return a.client.EncodingInfo()
}

func (a *audioInput) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	if !a.isConfigured() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capturing {
		return nil
	}

	if err := a.client.StartCapture(ctx, func(chunk []byte) {
		a.emitEvent(events.NewUserAudioFrame(chunk))
		onAudio(chunk)
	}); err != nil {
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	a.capturing = true
	return nil
}

// StopCapture releases the microphone. Safe to call when capture is not
// running.
func (a *audioInput) StopCapture() error {
	if !a.isConfigured() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.capturing {
		return nil
	}

	a.capturing = false
	if err := a.client.StopCapture(); err != nil {
		return fmt.Errorf("failed to stop audio capture: %w", err)
	}
	return nil
}

func (a *audioInput) IsCapturing() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capturing
}

func (a *audioInput) Close() error {
	if !a.isConfigured() {
		return nil
	}

	if err := a.StopCapture(); err != nil {
		return err
	}

	switch c := a.client.(type) {
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close audio input: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}
	return nil
}
