package nexus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ServicesStatus reports connectivity of the integrated backend services.
// Absent services are reported as disconnected. Both the current boolean
// reply values and the older "connected"/"disconnected" strings are accepted.
func (c *Client) ServicesStatus(ctx context.Context) (map[string]bool, error) {
	ctx, span := tracer.Start(ctx, "fetch services status")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/services/status", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status body: %w", err)
	}

	var states map[string]serviceState
	if err := json.Unmarshal(raw, &states); err != nil {
		return nil, fmt.Errorf("failed to decode status body: %w", err)
	}

	statuses := make(map[string]bool, len(states))
	for service, state := range states {
		statuses[service] = bool(state)
	}

	return statuses, nil
}

// serviceState decodes both reply generations: booleans and
// "connected"/"disconnected" strings. Anything else means disconnected.
type serviceState bool

func (s *serviceState) UnmarshalJSON(raw []byte) error {
	var boolean bool
	if err := json.Unmarshal(raw, &boolean); err == nil {
		*s = serviceState(boolean)
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		*s = serviceState(text == "connected")
		return nil
	}

	*s = false
	return nil
}
