// Package status tracks backend service connectivity for display badges.
package status

import (
	"context"
	"time"

	"github.com/nexusai/nexus-core/core/events"
)

// Client reports which backend services are currently connected.
type Client interface {
	ServicesStatus(ctx context.Context) (map[string]bool, error)
}

// DefaultServices are the integrations whose badges the interface shows.
func DefaultServices() []string {
	return []string{"gmail", "maps", "spotify"}
}

const defaultInterval = 15 * time.Second

type Poller struct {
	client   Client
	services []string
	interval time.Duration
	onUpdate func(statuses map[string]bool)
	onEvent  func(event events.Event)

	// last holds the previously reported statuses so connectivity events
	// fire only on change.
	last map[string]bool
}

type PollerOption func(*Poller)

func WithServices(services ...string) PollerOption {
	return func(p *Poller) { p.services = services }
}

func WithInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithUpdateCallback sets the callback invoked after every poll with one
// entry per tracked service.
func WithUpdateCallback(callback func(statuses map[string]bool)) PollerOption {
	return func(p *Poller) { p.onUpdate = callback }
}

// WithEventCallback sets the callback receiving a
// [events.ServiceStatusUpdated] whenever a tracked service's connectivity
// changes between polls.
func WithEventCallback(callback func(event events.Event)) PollerOption {
	return func(p *Poller) { p.onEvent = callback }
}

func NewPoller(client Client, opts ...PollerOption) *Poller {
	poller := &Poller{
		client:   client,
		services: DefaultServices(),
		interval: defaultInterval,
		onUpdate: func(map[string]bool) {},
		onEvent:  func(events.Event) {},
	}
	for _, opt := range opts {
		opt(poller)
	}
	return poller
}

// PollOnce fetches the current statuses and reports them through the update
// callback. A failed poll, or a service the backend did not mention, reads
// as disconnected.
func (p *Poller) PollOnce(ctx context.Context) map[string]bool {
	statuses := map[string]bool{}
	for _, service := range p.services {
		statuses[service] = false
	}

	reported, err := p.client.ServicesStatus(ctx)
	if err == nil {
		for _, service := range p.services {
			if connected, ok := reported[service]; ok {
				statuses[service] = connected
			}
		}
	}

	for _, service := range p.services {
		previous, known := p.last[service]
		if !known || previous != statuses[service] {
			p.onEvent(events.NewServiceStatusUpdated(service, statuses[service]))
		}
	}
	p.last = statuses

	p.onUpdate(statuses)
	return statuses
}

// Run polls immediately and then on every interval tick until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.PollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}
