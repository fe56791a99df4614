package availability

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceverett10/holibob-booking/models"
)

type fakeTransport struct {
	mu       sync.Mutex
	calls    int
	handlers map[string]func(vars map[string]any) (any, error)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: map[string]func(vars map[string]any) (any, error){}}
}

func (f *fakeTransport) Execute(_ context.Context, operationName, _ string, vars map[string]any, out any) error {
	f.mu.Lock()
	f.calls++
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

func sessionJSON(id string, complete bool, options ...map[string]any) map[string]any {
	return map[string]any{
		"id":    id,
		"nodes": []map[string]any{{"id": "n-1", "date": "2024-06-01", "startTime": "10:00"}},
		"optionList": map[string]any{
			"isComplete": complete,
			"options":    options,
		},
	}
}

func timeSlotOption(answer string) map[string]any {
	return map[string]any{
		"id":       "opt-time",
		"label":    "Time slot",
		"answer":   answer,
		"availableOptions": []map[string]any{
			{"id": "10:00", "label": "10:00"},
			{"id": "14:00", "label": "14:00"},
		},
	}
}

func TestOpenStartsAwaitingOptions(t *testing.T) {
	ft := newFakeTransport()
	var gotFilter map[string]any
	ft.handlers["AvailabilityCreate"] = func(vars map[string]any) (any, error) {
		gotFilter = vars["filter"].(map[string]any)
		return map[string]any{"availabilityCreate": sessionJSON("s-1", false, timeSlotOption(""))}, nil
	}
	r := NewResolver(ft)

	session, err := r.Open(context.Background(), "p-1", "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityAwaitingOptions, session.State())
	assert.Equal(t, "s-1", session.SessionID)
	assert.Len(t, session.UnansweredOptions(), 1)
	// Bare dates widen to full-day timestamps on the wire.
	assert.Equal(t, "2024-06-01T00:00:00.000Z", gotFilter["startDate"])
	assert.Equal(t, "2024-06-03T23:59:59.999Z", gotFilter["endDate"])
}

func TestResolveConvergesToOptionsComplete(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["AvailabilityCreate"] = func(map[string]any) (any, error) {
		return map[string]any{"availabilityCreate": sessionJSON("s-1", false, timeSlotOption(""))}, nil
	}
	var gotSelections []map[string]any
	ft.handlers["AvailabilityAdvance"] = func(vars map[string]any) (any, error) {
		gotSelections = vars["selections"].([]map[string]any)
		return map[string]any{"availability": sessionJSON("s-1", true, timeSlotOption("10:00"))}, nil
	}
	r := NewResolver(ft)

	session, err := r.Resolve(context.Background(), "p-1", "2024-06-01", "2024-06-03", FirstChoiceChooser)
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityOptionsComplete, session.State())
	require.Len(t, gotSelections, 1)
	sel := gotSelections[0]
	assert.Equal(t, "opt-time", sel["optionId"])
	assert.Equal(t, "10:00", sel["value"])
}

func TestResolveGivesUpAfterMaxRounds(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["AvailabilityCreate"] = func(map[string]any) (any, error) {
		return map[string]any{"availabilityCreate": sessionJSON("s-1", false, timeSlotOption(""))}, nil
	}
	ft.handlers["AvailabilityAdvance"] = func(map[string]any) (any, error) {
		// Upstream keeps reporting the option list incomplete.
		return map[string]any{"availability": sessionJSON("s-1", false, timeSlotOption(""))}, nil
	}
	r := NewResolver(ft)
	r.MaxRounds = 2

	_, err := r.Resolve(context.Background(), "p-1", "2024-06-01", "2024-06-03", FirstChoiceChooser)
	var nce *NoConvergenceError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, 2, nce.Rounds)
}

func TestPricingGateBlocksIncompleteSession(t *testing.T) {
	ft := newFakeTransport()
	r := NewResolver(ft)
	session := &models.AvailabilitySession{
		SessionID:  "s-1",
		OptionList: models.OptionList{IsComplete: false},
	}

	_, err := r.Pricing(context.Background(), session)
	var notReady *PricingNotReadyError
	require.ErrorAs(t, err, &notReady)

	_, err = r.SetPricing(context.Background(), session, map[string]int{"cat-adult": 2})
	require.ErrorAs(t, err, &notReady)

	// The gate is checked client-side: nothing reached the wire.
	assert.Zero(t, ft.calls)
}

func TestSetPricingMovesSessionToPriced(t *testing.T) {
	ft := newFakeTransport()
	ft.handlers["AvailabilityPricing"] = func(map[string]any) (any, error) {
		return map[string]any{"availability": map[string]any{
			"pricingCategoryList": map[string]any{"nodes": []map[string]any{
				{"id": "cat-adult", "label": "Adult", "unitPrice": 40.0},
				{"id": "cat-child", "label": "Child", "unitPrice": 20.0},
			}},
		}}, nil
	}
	ft.handlers["AvailabilityPricingSet"] = func(vars map[string]any) (any, error) {
		return map[string]any{"availabilityPricingUpdate": map[string]any{
			"totalPrice": 100.0,
			"currency":   "EUR",
			"pricingCategoryList": map[string]any{"nodes": []map[string]any{
				{"id": "cat-adult", "label": "Adult", "unitPrice": 40.0, "units": 2},
				{"id": "cat-child", "label": "Child", "unitPrice": 20.0, "units": 1},
			}},
		}}, nil
	}
	r := NewResolver(ft)
	session := &models.AvailabilitySession{
		SessionID:  "s-1",
		OptionList: models.OptionList{IsComplete: true},
	}

	categories, err := r.Pricing(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, models.AvailabilityOptionsComplete, session.State())

	total, err := r.SetPricing(context.Background(), session, map[string]int{"cat-adult": 2, "cat-child": 1})
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
	assert.Equal(t, models.AvailabilityPriced, session.State())
	assert.Equal(t, "EUR", session.Currency)
	assert.Equal(t, 2, session.PricingCategories[0].Units)
}

func TestTransportErrorsPropagateUnchanged(t *testing.T) {
	ft := newFakeTransport()
	wantErr := errors.New("boom")
	ft.handlers["AvailabilityCreate"] = func(map[string]any) (any, error) { return nil, wantErr }
	r := NewResolver(ft)

	_, err := r.Open(context.Background(), "p-1", "2024-06-01", "2024-06-03")
	require.ErrorIs(t, err, wantErr)
}
