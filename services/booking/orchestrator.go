package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/utils"
)

const bookingFields = `
    id
    reference
    state
    canCommit
    totalPrice
    currency
    availabilityList {
      id
      availabilityId
      productId
      productName
      price
      isComplete
    }
    questionList {
      id
      level
      itemId
      personId
      label
      dataType
      required
      answer
    }`

const mutationBookingCreate = `
mutation BookingCreate($input: BookingCreateInput!) {
  bookingCreate(input: $input) {` + bookingFields + `
  }
}`

const mutationBookingAddAvailability = `
mutation BookingAddAvailability($selector: BookingSelectorInput!, $availabilityId: ID!) {
  bookingAddAvailability(selector: $selector, availabilityId: $availabilityId) {
    isComplete
    booking {` + bookingFields + `
    }
  }
}`

const queryBooking = `
query Booking($selector: BookingSelectorInput!) {
  booking(selector: $selector) {` + bookingFields + `
  }
}`

const mutationBookingAnswers = `
mutation BookingAnswers($selector: BookingSelectorInput!, $answers: [AnswerInput!]!) {
  bookingQuestionAnswerUpsert(selector: $selector, answers: $answers) {` + bookingFields + `
  }
}`

const mutationBookingCommit = `
mutation BookingCommit($selector: BookingSelectorInput!) {
  bookingCommit(selector: $selector) {` + bookingFields + `
  }
}`

const mutationBookingCancel = `
mutation BookingCancel($selector: BookingSelectorInput!, $reason: String) {
  bookingCancel(selector: $selector, reason: $reason) {` + bookingFields + `
  }
}`

func selectorVars(selector models.BookingSelector) map[string]any {
	sel := map[string]any{}
	if selector.ID != "" {
		sel["id"] = selector.ID
	}
	if selector.Reference != "" {
		sel["reference"] = selector.Reference
	}
	return sel
}

// Create opens a new booking upstream. AutoFillQuestions is sent as true
// unless the caller explicitly overrides it.
func (o *DefaultOrchestrator) Create(ctx context.Context, opts CreateOptions) (*models.Booking, error) {
	autoFill := true
	if opts.AutoFillQuestions != nil {
		autoFill = *opts.AutoFillQuestions
	}
	input := map[string]any{"autoFillQuestions": autoFill}
	if opts.PartnerReference != "" {
		input["partnerReference"] = opts.PartnerReference
	}
	if opts.LeadGuest != nil {
		input["leadGuest"] = opts.LeadGuest
	}

	var resp struct {
		BookingCreate models.Booking `json:"bookingCreate"`
	}
	if err := o.Transport.Execute(ctx, "BookingCreate", mutationBookingCreate, map[string]any{"input": input}, &resp); err != nil {
		return nil, fmt.Errorf("booking create failed: %w", err)
	}
	utils.GetLogger().Debug("booking created",
		zap.String("bookingId", resp.BookingCreate.ID),
		zap.String("state", string(resp.BookingCreate.State)))
	return &resp.BookingCreate, nil
}

// AddAvailability attaches a priced, option-complete offer to the booking and
// reports whether the new line item already has all its questions answered.
func (o *DefaultOrchestrator) AddAvailability(ctx context.Context, selector models.BookingSelector, availabilityID string) (bool, error) {
	var resp struct {
		BookingAddAvailability struct {
			IsComplete bool           `json:"isComplete"`
			Booking    models.Booking `json:"booking"`
		} `json:"bookingAddAvailability"`
	}
	vars := map[string]any{"selector": selectorVars(selector), "availabilityId": availabilityID}
	if err := o.Transport.Execute(ctx, "BookingAddAvailability", mutationBookingAddAvailability, vars, &resp); err != nil {
		return false, fmt.Errorf("booking add availability failed: %w", err)
	}
	return resp.BookingAddAvailability.IsComplete, nil
}

func (o *DefaultOrchestrator) Get(ctx context.Context, selector models.BookingSelector) (*models.Booking, error) {
	var resp struct {
		Booking models.Booking `json:"booking"`
	}
	vars := map[string]any{"selector": selectorVars(selector)}
	if err := o.Transport.Execute(ctx, "Booking", queryBooking, vars, &resp); err != nil {
		return nil, fmt.Errorf("booking fetch failed: %w", err)
	}
	return &resp.Booking, nil
}

// Questions returns the booking's current question list.
func (o *DefaultOrchestrator) Questions(ctx context.Context, selector models.BookingSelector) ([]models.Question, error) {
	b, err := o.Get(ctx, selector)
	if err != nil {
		return nil, err
	}
	return b.Questions, nil
}

// Answer submits a batch of answers and returns the refreshed booking.
// Answering one question can reveal dependent questions, so callers must
// re-check the question list and canCommit afterwards rather than assuming a
// single round suffices.
func (o *DefaultOrchestrator) Answer(ctx context.Context, selector models.BookingSelector, answers []models.Answer) (*models.Booking, error) {
	payload := make([]map[string]any, 0, len(answers))
	for _, a := range answers {
		payload = append(payload, map[string]any{"questionId": a.QuestionID, "value": a.Value})
	}

	var resp struct {
		BookingQuestionAnswerUpsert models.Booking `json:"bookingQuestionAnswerUpsert"`
	}
	vars := map[string]any{"selector": selectorVars(selector), "answers": payload}
	if err := o.Transport.Execute(ctx, "BookingAnswers", mutationBookingAnswers, vars, &resp); err != nil {
		return nil, fmt.Errorf("booking answer upsert failed: %w", err)
	}
	return &resp.BookingQuestionAnswerUpsert, nil
}

// AnswerUntilCommittable drives the iterative answer loop until the booking
// reports canCommit, bounded by maxRounds to avoid livelock on a question set
// that keeps growing.
func (o *DefaultOrchestrator) AnswerUntilCommittable(ctx context.Context, selector models.BookingSelector, answer AnswerFunc, maxRounds int) (*models.Booking, error) {
	if maxRounds <= 0 {
		maxRounds = 5
	}
	b, err := o.Get(ctx, selector)
	if err != nil {
		return nil, err
	}
	for round := 0; !b.CanCommit; round++ {
		if round >= maxRounds {
			return nil, NewPreconditionError(fmt.Sprintf("booking %s not committable after %d answer rounds", b.ID, maxRounds))
		}
		unanswered := b.UnansweredRequired()
		if len(unanswered) == 0 {
			// Upstream has everything it asked for but still reports
			// canCommit=false; one refresh round picks up late state.
			b, err = o.Get(ctx, selector)
			if err != nil {
				return nil, err
			}
			continue
		}
		answers, err := answer(unanswered)
		if err != nil {
			return nil, fmt.Errorf("answer callback failed: %w", err)
		}
		b, err = o.Answer(ctx, selector, answers)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Commit finalizes the booking. The canCommit precondition is checked
// client-side first: a commit with canCommit=false never reaches the network,
// avoiding inconsistent partial commits upstream.
func (o *DefaultOrchestrator) Commit(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if !booking.CanCommit {
		return nil, NewPreconditionError(fmt.Sprintf("booking %s has canCommit=false; answer remaining questions first", booking.ID))
	}

	var resp struct {
		BookingCommit models.Booking `json:"bookingCommit"`
	}
	vars := map[string]any{"selector": map[string]any{"id": booking.ID}}
	if err := o.Transport.Execute(ctx, "BookingCommit", mutationBookingCommit, vars, &resp); err != nil {
		return nil, fmt.Errorf("booking commit failed: %w", err)
	}
	utils.GetLogger().Info("booking committed",
		zap.String("bookingId", resp.BookingCommit.ID),
		zap.String("state", string(resp.BookingCommit.State)))
	return &resp.BookingCommit, nil
}

// Cancel requests cancellation. Idempotent at this layer: a booking that is
// already cancelled is treated as success without issuing the mutation.
func (o *DefaultOrchestrator) Cancel(ctx context.Context, selector models.BookingSelector, reason string) error {
	current, err := o.Get(ctx, selector)
	if err != nil {
		return err
	}
	if current.State == models.BookingCancelled {
		return nil
	}

	var resp struct {
		BookingCancel models.Booking `json:"bookingCancel"`
	}
	vars := map[string]any{"selector": selectorVars(selector), "reason": reason}
	if err := o.Transport.Execute(ctx, "BookingCancel", mutationBookingCancel, vars, &resp); err != nil {
		return fmt.Errorf("booking cancel failed: %w", err)
	}
	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingId", resp.BookingCancel.ID),
		zap.String("reason", reason))
	return nil
}
