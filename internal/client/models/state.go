package models

// State is a node of the client session state machine.
type State int

const (
	StateAnonymous State = iota
	StateAwaitingEnrollment
	StateAwaitingConfirmation
	StateAuthenticated
	StateSessionInvalid
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "ANONYMOUS"
	case StateAwaitingEnrollment:
		return "AWAITING_SECOND_FACTOR_ENROLLMENT"
	case StateAwaitingConfirmation:
		return "AWAITING_SECOND_FACTOR_CONFIRMATION"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateSessionInvalid:
		return "SESSION_INVALID"
	default:
		return "UNKNOWN"
	}
}
