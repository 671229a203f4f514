package events

// KindTurnCancelled identifies explicit cancellation of the active turn.
const KindTurnCancelled Kind = "turn_state.cancelled"

// TurnCancelled reports that the user abandoned the turn in flight: capture
// stopped, speech silenced, any pending backend result left to go stale.
type TurnCancelled struct{ Base }

func NewTurnCancelled() TurnCancelled {
	return TurnCancelled{Base: NewBase(KindTurnCancelled)}
}
