// Package conversations holds state that outlives a single exchange with the
// assistant.
package conversations

import (
	"strings"
	"sync"
)

// LocationContext remembers the origin and destination of the most recent
// directions result so follow-up questions can refer to "there" without
// repeating the address. Values persist until the next directions result
// overwrites them; there is no expiry.
type LocationContext struct {
	mu          sync.Mutex
	origin      string
	destination string
}

func NewLocationContext() *LocationContext {
	return &LocationContext{}
}

// Update stores a new origin/destination pair. Empty values clear the
// corresponding side rather than being ignored, the latest directions result
// always wins whole.
func (c *LocationContext) Update(origin, destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origin = origin
	c.destination = destination
}

func (c *LocationContext) Get() (origin, destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.origin, c.destination
}

func (c *LocationContext) IsSet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.origin != "" || c.destination != ""
}

var directionsMarkers = []string{
	"how far", "how long", "distance", "directions", "navigate",
	"route", "traffic", "get there", "get home", "drive", "walk there",
	"eta",
}

// IsDirectionsQuery reports whether an utterance likely continues a
// directions conversation and should carry the stored locations along.
func IsDirectionsQuery(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range directionsMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
