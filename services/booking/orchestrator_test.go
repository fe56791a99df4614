package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceverett10/holibob-booking/models"
)

type fakeTransport struct {
	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]func(vars map[string]any) (any, error)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		calls:    map[string]int{},
		handlers: map[string]func(vars map[string]any) (any, error){},
	}
}

func (f *fakeTransport) Execute(_ context.Context, operationName, _ string, vars map[string]any, out any) error {
	f.mu.Lock()
	f.calls[operationName]++
	handler, ok := f.handlers[operationName]
	f.mu.Unlock()
	if !ok {
		return errors.New("unexpected operation " + operationName)
	}
	data, err := handler(vars)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func newTestOrchestrator(ft *fakeTransport) (*DefaultOrchestrator, *[]time.Duration) {
	o := NewOrchestrator(ft)
	delays := &[]time.Duration{}
	o.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return o, delays
}

func bookingJSON(id string, state models.BookingState, canCommit bool) map[string]any {
	return map[string]any{
		"id":        id,
		"state":     string(state),
		"canCommit": canCommit,
	}
}

func TestCreateDefaultsAutoFillQuestions(t *testing.T) {
	ft := newFakeTransport()
	var gotInput map[string]any
	ft.handlers["BookingCreate"] = func(vars map[string]any) (any, error) {
		gotInput = vars["input"].(map[string]any)
		return map[string]any{"bookingCreate": bookingJSON("b-1", models.BookingCreated, false)}, nil
	}
	o, _ := newTestOrchestrator(ft)

	b, err := o.Create(context.Background(), CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "b-1", b.ID)
	assert.Equal(t, true, gotInput["autoFillQuestions"])

	off := false
	_, err = o.Create(context.Background(), CreateOptions{AutoFillQuestions: &off})
	require.NoError(t, err)
	assert.Equal(t, false, gotInput["autoFillQuestions"])
}

func TestCommitPreconditionFailsWithoutNetworkCall(t *testing.T) {
	ft := newFakeTransport()
	o, _ := newTestOrchestrator(ft)

	b := &models.Booking{ID: "b-1", State: models.BookingQuestionsPending, CanCommit: false}
	_, err := o.Commit(context.Background(), b)

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "preconditionFailed", pre.Code)
	assert.Zero(t, ft.calls["BookingCommit"])
}

func TestCommitIssuesMutationWhenCommittable(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["BookingCommit"] = func(vars map[string]any) (any, error) {
		sel := vars["selector"].(map[string]any)
		assert.Equal(t, "b-1", sel["id"])
		return map[string]any{"bookingCommit": bookingJSON("b-1", models.BookingPending, false)}, nil
	}
	o, _ := newTestOrchestrator(ft)

	b := &models.Booking{ID: "b-1", State: models.BookingCanCommit, CanCommit: true}
	committed, err := o.Commit(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, committed.State)
	assert.Equal(t, 1, ft.calls["BookingCommit"])
}

func TestAddAvailabilityReportsItemCompleteness(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["BookingAddAvailability"] = func(vars map[string]any) (any, error) {
		assert.Equal(t, "s-1", vars["availabilityId"])
		return map[string]any{"bookingAddAvailability": map[string]any{
			"isComplete": true,
			"booking":    bookingJSON("b-1", models.BookingQuestionsPending, false),
		}}, nil
	}
	o, _ := newTestOrchestrator(ft)

	complete, err := o.AddAvailability(context.Background(), models.BookingSelector{ID: "b-1"}, "s-1")
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestAnswerUntilCommittableIterates(t *testing.T) {
	ft := newFakeTransport()
	round := 0
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		b := bookingJSON("b-1", models.BookingQuestionsPending, false)
		b["questionList"] = []map[string]any{
			{"id": "q-1", "label": "First name", "required": true},
		}
		return map[string]any{"booking": b}, nil
	}
	ft.handlers["BookingAnswers"] = func(vars map[string]any) (any, error) {
		round++
		b := bookingJSON("b-1", models.BookingQuestionsPending, false)
		if round == 1 {
			// Answering the first question reveals a dependent one.
			b["questionList"] = []map[string]any{
				{"id": "q-1", "label": "First name", "required": true, "answer": "Ada"},
				{"id": "q-2", "label": "Last name", "required": true},
			}
		} else {
			b = bookingJSON("b-1", models.BookingCanCommit, true)
		}
		return map[string]any{"bookingQuestionAnswerUpsert": b}, nil
	}
	o, _ := newTestOrchestrator(ft)

	answer := func(questions []models.Question) ([]models.Answer, error) {
		answers := make([]models.Answer, 0, len(questions))
		for _, q := range questions {
			answers = append(answers, models.Answer{QuestionID: q.ID, Value: "x"})
		}
		return answers, nil
	}

	b, err := o.AnswerUntilCommittable(context.Background(), models.BookingSelector{ID: "b-1"}, answer, 5)
	require.NoError(t, err)
	assert.True(t, b.CanCommit)
	assert.Equal(t, 2, round)
}

func TestAnswerUntilCommittableRoundBudget(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		b := bookingJSON("b-1", models.BookingQuestionsPending, false)
		b["questionList"] = []map[string]any{{"id": "q-1", "label": "First name", "required": true}}
		return map[string]any{"booking": b}, nil
	}
	ft.handlers["BookingAnswers"] = func(map[string]any) (any, error) {
		// canCommit never flips.
		b := bookingJSON("b-1", models.BookingQuestionsPending, false)
		b["questionList"] = []map[string]any{{"id": "q-1", "label": "First name", "required": true}}
		return map[string]any{"bookingQuestionAnswerUpsert": b}, nil
	}
	o, _ := newTestOrchestrator(ft)

	answer := func(questions []models.Question) ([]models.Answer, error) {
		return []models.Answer{{QuestionID: "q-1", Value: "x"}}, nil
	}
	_, err := o.AnswerUntilCommittable(context.Background(), models.BookingSelector{ID: "b-1"}, answer, 2)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
}

func TestWaitForConfirmationResolvesAfterThreePolls(t *testing.T) {
	ft := newFakeTransport()
	poll := 0
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		poll++
		state := models.BookingPending
		if poll >= 3 {
			state = models.BookingConfirmed
		}
		return map[string]any{"booking": bookingJSON("b-1", state, false)}, nil
	}
	o, delays := newTestOrchestrator(ft)

	b, err := o.WaitForConfirmation(context.Background(), "b-1", ConfirmationOptions{MaxAttempts: 10, Interval: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.State)
	assert.Equal(t, 3, ft.calls["Booking"])

	// Fixed delay between polls, no backoff.
	require.Len(t, *delays, 2)
	assert.Equal(t, 2*time.Second, (*delays)[0])
	assert.Equal(t, 2*time.Second, (*delays)[1])
}

func TestWaitForConfirmationTimesOut(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		return map[string]any{"booking": bookingJSON("b-1", models.BookingPending, false)}, nil
	}
	o, delays := newTestOrchestrator(ft)

	_, err := o.WaitForConfirmation(context.Background(), "b-1", ConfirmationOptions{MaxAttempts: 5, Interval: time.Second})
	var timeout *ConfirmationTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 5, timeout.Attempts)
	assert.Equal(t, 5, ft.calls["Booking"])
	// No sleep after the final poll.
	assert.Len(t, *delays, 4)
}

func TestWaitForConfirmationStopsOnRejection(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		return map[string]any{"booking": bookingJSON("b-1", models.BookingRejected, false)}, nil
	}
	o, delays := newTestOrchestrator(ft)

	_, err := o.WaitForConfirmation(context.Background(), "b-1", ConfirmationOptions{MaxAttempts: 10, Interval: time.Second})
	var terminal *TerminalStateError
	require.ErrorAs(t, err, &terminal)
	assert.Equal(t, models.BookingRejected, terminal.State)
	assert.Equal(t, 1, ft.calls["Booking"])
	assert.Empty(t, *delays)
}

func TestCancelIsIdempotentForCancelledBooking(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		return map[string]any{"booking": bookingJSON("b-1", models.BookingCancelled, false)}, nil
	}
	o, _ := newTestOrchestrator(ft)

	err := o.Cancel(context.Background(), models.BookingSelector{ID: "b-1"}, "changed plans")
	require.NoError(t, err)
	assert.Zero(t, ft.calls["BookingCancel"])
}

func TestCancelIssuesMutationForActiveBooking(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["Booking"] = func(map[string]any) (any, error) {
		return map[string]any{"booking": bookingJSON("b-1", models.BookingPending, false)}, nil
	}
	ft.handlers["BookingCancel"] = func(vars map[string]any) (any, error) {
		assert.Equal(t, "changed plans", vars["reason"])
		return map[string]any{"bookingCancel": bookingJSON("b-1", models.BookingCancelled, false)}, nil
	}
	o, _ := newTestOrchestrator(ft)

	err := o.Cancel(context.Background(), models.BookingSelector{ID: "b-1"}, "changed plans")
	require.NoError(t, err)
	assert.Equal(t, 1, ft.calls["BookingCancel"])
}

func TestTransportErrorsPropagate(t *testing.T) {
	ft := newFakeTransport()
	wantErr := errors.New("boom")
	ft.handlers["Booking"] = func(map[string]any) (any, error) { return nil, wantErr }
	o, _ := newTestOrchestrator(ft)

	_, err := o.WaitForConfirmation(context.Background(), "b-1", ConfirmationOptions{MaxAttempts: 3})
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, ft.calls["Booking"])
}
