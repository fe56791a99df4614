package booking

import (
	"fmt"

	"github.com/ceverett10/holibob-booking/models"
)

// PreconditionError reports a domain precondition failure, such as a commit
// attempted while canCommit is false. It is terminal for the current booking
// attempt: retrying the same call cannot succeed.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewPreconditionError(msg string) error {
	return &PreconditionError{
		Code:    "preconditionFailed",
		Message: msg,
	}
}

// TerminalStateError reports that the booking reached REJECTED or CANCELLED
// while a confirmation was awaited. The caller must restart the booking flow.
type TerminalStateError struct {
	BookingID string
	State     models.BookingState
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("booking %s reached terminal state %s", e.BookingID, e.State)
}

// ConfirmationTimeoutError reports that the polling window was exhausted
// without the supplier reaching a terminal state. Distinct from a network
// timeout: the booking has not failed, the supplier just has not answered yet.
type ConfirmationTimeoutError struct {
	BookingID string
	Attempts  int
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("booking %s not confirmed after %d polls", e.BookingID, e.Attempts)
}
