package booking

import (
	"context"
	"time"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/transport"
)

// CreateOptions configures booking creation. AutoFillQuestions defaults to
// true: upstream pre-populates answerable questions from known context, which
// shrinks the question surface the caller has to handle.
type CreateOptions struct {
	AutoFillQuestions *bool
	PartnerReference  string
	LeadGuest         *models.Guest
}

// ConfirmationOptions bounds the supplier-confirmation poll. The interval is
// a fixed delay: confirmation latency is supplier-driven, not a congestion
// signal, so backoff would be wrong here.
type ConfirmationOptions struct {
	MaxAttempts int           // default 30
	Interval    time.Duration // default 2s
}

// AnswerFunc produces answers for the currently unanswered questions of a
// booking during the iterative answer loop.
type AnswerFunc func(questions []models.Question) ([]models.Answer, error)

// Orchestrator owns one booking's lifecycle: create, attach availability,
// answer questions, commit, and wait for supplier confirmation. All steps for
// a single booking are strictly sequential; the orchestrator never overlaps
// calls for the same booking id.
type Orchestrator interface {
	Create(ctx context.Context, opts CreateOptions) (*models.Booking, error)
	AddAvailability(ctx context.Context, selector models.BookingSelector, availabilityID string) (bool, error)
	Get(ctx context.Context, selector models.BookingSelector) (*models.Booking, error)
	Questions(ctx context.Context, selector models.BookingSelector) ([]models.Question, error)
	Answer(ctx context.Context, selector models.BookingSelector, answers []models.Answer) (*models.Booking, error)
	AnswerUntilCommittable(ctx context.Context, selector models.BookingSelector, answer AnswerFunc, maxRounds int) (*models.Booking, error)
	Commit(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	WaitForConfirmation(ctx context.Context, bookingID string, opts ConfirmationOptions) (*models.Booking, error)
	Cancel(ctx context.Context, selector models.BookingSelector, reason string) error
}

// DefaultOrchestrator implements Orchestrator over the signed transport.
type DefaultOrchestrator struct {
	Transport transport.Client

	// test seam for the confirmation poll delay
	sleep func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(t transport.Client) *DefaultOrchestrator {
	return &DefaultOrchestrator{Transport: t, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
