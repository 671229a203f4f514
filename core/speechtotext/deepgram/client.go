package deepgram

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TranscriptionClient streams captured audio to Deepgram over a websocket
// and reports interim and final transcripts through callbacks.
type TranscriptionClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs time.Time

	accumulatedTranscript string
	unendedSegment        bool

	// singleUtterance makes the client end the capture itself after the
	// first final transcript, implementing the single-shot strategy on top
	// of the same stream.
	singleUtterance bool
	finalEmitted    bool
}

type ClientOption func(*TranscriptionClient)

// WithSingleUtterance configures the client to emit exactly one final
// transcript and then close the stream.
func WithSingleUtterance() ClientOption {
	return func(c *TranscriptionClient) { c.singleUtterance = true }
}

// NewTranscriptionClient creates a streaming transcription client. It fails
// when no Deepgram API key is configured, which lets strategy selection
// degrade to the next capture approach.
func NewTranscriptionClient(opts ...ClientOption) (*TranscriptionClient, error) {
	if _, ok := os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	client := &TranscriptionClient{}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
