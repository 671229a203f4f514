package events

import "time"

// Kind is a namespaced event identifier, e.g. "command.dispatched". The
// namespace groups events by the part of the session that produced them.
type Kind string

// Event is anything the session publishes to its observers. Payloads embed
// [Base] and add their own fields.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the identity every event shares: its kind and the moment it
// was created.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
