package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusEditing    Status = "EDITING"
	StatusValidating Status = "VALIDATING"
	StatusSubmitting Status = "SUBMITTING"
	StatusConfirmed  Status = "CONFIRMED"
)

// IsTerminal reports whether the checkout cycle is finished for this order.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo encodes the allowed status moves. Validation failures and
// submission failures both fall back to EDITING; a confirmed order never
// moves again.
func CanTransitionTo(from, to Status) bool {
	switch from {
	case StatusIdle:
		return to == StatusEditing
	case StatusEditing:
		return to == StatusValidating || to == StatusIdle
	case StatusValidating:
		return to == StatusEditing || to == StatusSubmitting
	case StatusSubmitting:
		return to == StatusEditing || to == StatusConfirmed
	case StatusConfirmed:
		return false
	}
	return false
}
