package portaudio

import (
	"testing"

	session "github.com/nexusai/nexus-core/core"
)

var (
	_ session.AudioInput  = (*Client)(nil)
	_ session.AudioOutput = (*Client)(nil)
)

func TestEncodingInfoMatchesSessionDefault(t *testing.T) {
	c := &Client{bufferSize: 512}
	info := c.EncodingInfo()
	if info.IsZero() {
		t.Fatalf("expected a complete encoding")
	}
	if info.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", info.SampleRate)
	}
}

func TestClearBufferDropsLeftoverAudio(t *testing.T) {
	c := &Client{bufferSize: 512, leftoverAudio: []byte{1, 2, 3}}
	c.ClearBuffer()
	if c.leftoverAudio != nil {
		t.Fatalf("expected leftover audio dropped")
	}
}
