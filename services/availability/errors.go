package availability

import "fmt"

// PricingNotReadyError is raised when pricing is requested before the
// session's option list is complete. It is a domain precondition failure: no
// network call was made and retrying without further option rounds will not
// help.
type PricingNotReadyError struct {
	SessionID string
}

func (e *PricingNotReadyError) Error() string {
	return fmt.Sprintf("availability session %s is not option-complete; pricing is not available yet", e.SessionID)
}

// NoConvergenceError is raised when the option negotiation fails to reach a
// complete option list within the round budget.
type NoConvergenceError struct {
	SessionID string
	Rounds    int
}

func (e *NoConvergenceError) Error() string {
	return fmt.Sprintf("availability session %s did not reach option-complete after %d rounds", e.SessionID, e.Rounds)
}
