package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexusai/nexus-core/core/speechtotext"
)

type uploaderStub struct {
	transcript string
	err        error

	clip     []byte
	mimeType string
	calls    int
}

func (u *uploaderStub) TranscribeClip(_ context.Context, clip []byte, mimeType string) (string, error) {
	u.calls++
	u.clip = clip
	u.mimeType = mimeType
	return u.transcript, u.err
}

func TestStopStreamUploadsRecordedClip(t *testing.T) {
	uploader := &uploaderStub{transcript: "navigate home"}
	client, err := NewClient(uploader)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	transcripts := make(chan string, 1)
	ended := false
	if err := client.Transcribe(context.Background(),
		speechtotext.WithTranscriptionCallback(func(transcript string) { transcripts <- transcript }),
		speechtotext.WithSpeechEndedCallback(func() { ended = true }),
	); err != nil {
		t.Fatalf("failed to arm capture: %v", err)
	}

	if err := client.SendAudio([]byte{1, 2}); err != nil {
		t.Fatalf("failed to buffer audio: %v", err)
	}
	if err := client.SendAudio([]byte{3, 4}); err != nil {
		t.Fatalf("failed to buffer audio: %v", err)
	}
	if err := client.StopStream(); err != nil {
		t.Fatalf("failed to stop capture: %v", err)
	}

	select {
	case transcript := <-transcripts:
		if transcript != "navigate home" {
			t.Fatalf("expected uploaded transcript, got %q", transcript)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected transcription callback")
	}

	if !ended {
		t.Fatalf("expected speech-ended callback before the upload finishes")
	}
	if string(uploader.clip) != string([]byte{1, 2, 3, 4}) {
		t.Fatalf("expected buffered clip to be uploaded whole, got %v", uploader.clip)
	}
	if uploader.mimeType != "audio/l16" {
		t.Fatalf("expected raw pcm mime type, got %q", uploader.mimeType)
	}
}

func TestStopStreamSkipsUploadForEmptyClip(t *testing.T) {
	uploader := &uploaderStub{transcript: "should not be used"}
	client, _ := NewClient(uploader)

	ended := false
	if err := client.Transcribe(context.Background(),
		speechtotext.WithTranscriptionCallback(func(string) { t.Errorf("unexpected transcript") }),
		speechtotext.WithSpeechEndedCallback(func() { ended = true }),
	); err != nil {
		t.Fatalf("failed to arm capture: %v", err)
	}

	if err := client.StopStream(); err != nil {
		t.Fatalf("failed to stop capture: %v", err)
	}

	if !ended {
		t.Fatalf("expected speech-ended callback even without audio")
	}
	if uploader.calls != 0 {
		t.Fatalf("expected no upload for an empty clip, got %d", uploader.calls)
	}
}

func TestStopStreamReportsUploadFailure(t *testing.T) {
	uploader := &uploaderStub{err: errors.New("backend unreachable")}
	client, _ := NewClient(uploader)

	failures := make(chan error, 1)
	if err := client.Transcribe(context.Background(),
		speechtotext.WithTranscriptionCallback(func(string) { t.Errorf("unexpected transcript") }),
		speechtotext.WithErrorCallback(func(err error) { failures <- err }),
	); err != nil {
		t.Fatalf("failed to arm capture: %v", err)
	}

	if err := client.SendAudio([]byte{1}); err != nil {
		t.Fatalf("failed to buffer audio: %v", err)
	}
	if err := client.StopStream(); err != nil {
		t.Fatalf("failed to stop capture: %v", err)
	}

	select {
	case err := <-failures:
		if err == nil {
			t.Fatalf("expected an error")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected error callback")
	}
}

func TestSendAudioRequiresArmedCapture(t *testing.T) {
	client, _ := NewClient(&uploaderStub{})
	if err := client.SendAudio([]byte{1}); err == nil {
		t.Fatalf("expected error when capture is not armed")
	}
}
