package events

// KindSessionStateChanged identifies controller state transitions.
const KindSessionStateChanged Kind = "session_state.changed"

// SessionStateChanged marks a controller state transition.
type SessionStateChanged struct {
	Base
	State string
}

// NewSessionStateChanged creates a session state changed event.
func NewSessionStateChanged(state string) SessionStateChanged {
	return SessionStateChanged{Base: NewBase(KindSessionStateChanged), State: state}
}
