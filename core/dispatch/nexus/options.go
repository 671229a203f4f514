package nexus

import (
	"net/http"
	"time"
)

type ClientOption func(*Client)

// WithVoiceAgentURL sets the base URL of the voice-agent provisioning
// service. Room creation fails until one is configured.
func WithVoiceAgentURL(url string) ClientOption {
	return func(c *Client) { c.voiceAgentURL = url }
}

// WithHTTPClient overrides the default instrumented HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLegacyMessageField makes text dispatches use the older {"message": ...}
// request body instead of {"text": ...}.
func WithLegacyMessageField() ClientOption {
	return func(c *Client) { c.legacyMessageField = true }
}

// WithTimeout caps each dispatch attempt. There is exactly one attempt, so
// this is also the total budget.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.timeout = timeout }
}
