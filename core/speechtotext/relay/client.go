// Package relay implements the last-resort capture strategy: raw audio is
// buffered locally while the microphone is open and uploaded to a remote
// transcription endpoint when the capture stops. There are no interim
// transcripts and no local speech detection.
package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusai/nexus-core/core/audio"
	"github.com/nexusai/nexus-core/core/speechtotext"
)

// Uploader transcribes a finished clip remotely. The mime type describes the
// clip's raw encoding.
type Uploader interface {
	TranscribeClip(ctx context.Context, clip []byte, mimeType string) (string, error)
}

type Client struct {
	uploader Uploader

	mu      sync.Mutex
	armed   bool
	clip    []byte
	options speechtotext.TranscriptionOptions

	ctx context.Context
}

func NewClient(uploader Uploader) (*Client, error) {
	if uploader == nil {
		return nil, fmt.Errorf("relay transcription requires an uploader")
	}
	return &Client{uploader: uploader}, nil
}

func (c *Client) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		return fmt.Errorf("capture already in progress")
	}

	c.armed = true
	c.clip = nil
	c.options = options
	c.ctx = ctx
	return nil
}

func (c *Client) SendAudio(audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.armed {
		return fmt.Errorf("capture is not armed")
	}
	c.clip = append(c.clip, audio...)
	return nil
}

// StopStream finishes the capture and uploads the recorded clip. The
// transcript (or the upload failure) is reported through the callbacks armed
// by Transcribe, off the caller's goroutine.
func (c *Client) StopStream() error {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return nil
	}

	clip := c.clip
	options := c.options
	ctx := c.ctx
	c.armed = false
	c.clip = nil
	c.mu.Unlock()

	if options.SpeechEndedCallback != nil {
		options.SpeechEndedCallback()
	}
	if len(clip) == 0 {
		return nil
	}

	go func() {
		transcript, err := c.uploader.TranscribeClip(ctx, clip, options.EncodingInfo.MimeType())
		if err != nil {
			if options.ErrorCallback != nil {
				options.ErrorCallback(fmt.Errorf("failed to transcribe recorded clip: %w", err))
			}
			return
		}
		if transcript != "" && options.TranscriptionCallback != nil {
			options.TranscriptionCallback(transcript)
		}
	}()

	return nil
}
