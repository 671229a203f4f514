package nexus

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexusai/nexus-core/core/dispatch"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const defaultTimeout = 30 * time.Second

// Client talks to the backend command-processing service. It performs
// exactly one attempt per call: failures surface immediately as synthetic
// error results or errors, never as retries.
type Client struct {
	baseURL       string
	voiceAgentURL string
	httpClient    *http.Client

	legacyMessageField bool
	timeout            time.Duration
}

var _ dispatch.Dispatcher = (*Client)(nil)

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return fmt.Sprintf("%s %s", request.Method, request.URL.Path)
			}),
		)},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Send dispatches one utterance to the text-processing endpoint and
// classifies the reply. Transport failures and non-success statuses come
// back as an [dispatch.ErrorResult]; the error return carries context
// cancellation only.
func (c *Client) Send(ctx context.Context, req dispatch.Request) (dispatch.Result, error) {
	ctx, span := tracer.Start(ctx, "process text command")
	defer span.End()

	body := map[string]string{}
	if c.legacyMessageField {
		body["message"] = req.Text
	} else {
		body["text"] = req.Text
	}
	if req.Origin != "" {
		body["origin"] = req.Origin
	}
	if req.Destination != "" {
		body["destination"] = req.Destination
	}

	raw, err := c.post(ctx, c.baseURL+"/api/text/process", body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		recordedErr := fmt.Errorf("text dispatch failed: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		logger.ErrorContext(ctx, "text dispatch failed", "error", err)
		return dispatch.ErrorResult{Message: dispatch.ErrorMessage}, nil
	}

	return dispatch.ClassifyJSON(raw), nil
}

// ProcessVoice uploads a captured audio clip to the voice-processing
// endpoint. The backend transcribes and executes the command in one round
// trip; the transcript is returned alongside the classified result when the
// backend echoes it.
func (c *Client) ProcessVoice(ctx context.Context, clip []byte, mimeType string) (dispatch.Result, string, error) {
	ctx, span := tracer.Start(ctx, "process voice command")
	defer span.End()

	raw, err := c.post(ctx, c.baseURL+"/api/voice/process", map[string]string{
		"audio":  base64.StdEncoding.EncodeToString(clip),
		"format": mimeType,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}

		recordedErr := fmt.Errorf("voice dispatch failed: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return dispatch.ErrorResult{Message: dispatch.ErrorMessage}, "", nil
	}

	var env dispatch.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return dispatch.GenericResult{Message: dispatch.ProcessedMessage, Success: true}, "", nil
	}

	return dispatch.Classify(env), env.Transcript, nil
}

// TranscribeClip uploads a clip and returns only the transcript. It backs
// the record-then-upload capture strategy on platforms without streaming
// recognition.
func (c *Client) TranscribeClip(ctx context.Context, clip []byte, mimeType string) (string, error) {
	_, transcript, err := c.ProcessVoice(ctx, clip, mimeType)
	if err != nil {
		return "", err
	}
	if transcript == "" {
		return "", fmt.Errorf("backend returned no transcript for uploaded clip")
	}
	return transcript, nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	return raw, nil
}
