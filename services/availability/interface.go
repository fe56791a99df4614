package availability

import (
	"context"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/transport"
)

// OptionChooser selects values for the unanswered options of a session
// during iterative negotiation.
type OptionChooser func(session *models.AvailabilitySession) ([]models.OptionSelection, error)

// Resolver turns a product + date range into a priced, option-complete
// bookable offer.
type Resolver interface {
	// Open starts a negotiation with the direct-filter call: one request
	// yields the session and its first option prompts.
	Open(ctx context.Context, productID, start, end string) (*models.AvailabilitySession, error)
	// Advance submits option selections for an existing session and
	// refreshes it. Both Open and Advance converge on the same session
	// representation.
	Advance(ctx context.Context, session *models.AvailabilitySession, selections []models.OptionSelection) error
	// Resolve runs Open then Advance rounds via the chooser until the
	// option list is complete.
	Resolve(ctx context.Context, productID, start, end string, choose OptionChooser) (*models.AvailabilitySession, error)
	// Pricing fetches the traveler-tier price list. Fails without a network
	// call while the session is not option-complete.
	Pricing(ctx context.Context, session *models.AvailabilitySession) ([]models.PricingCategory, error)
	// SetPricing submits per-category unit counts and returns the total
	// offer price, moving the session to its priced, final form.
	SetPricing(ctx context.Context, session *models.AvailabilitySession, units map[string]int) (float64, error)
}

// DefaultResolver implements Resolver over the signed transport.
type DefaultResolver struct {
	Transport transport.Client
	// MaxRounds bounds the option negotiation loop; 0 means the default.
	MaxRounds int
}

func NewResolver(t transport.Client) *DefaultResolver {
	return &DefaultResolver{Transport: t}
}

// FirstChoiceChooser answers every unanswered option with its first available
// choice. Suitable for simple date-only offers and for the CLI.
func FirstChoiceChooser(session *models.AvailabilitySession) ([]models.OptionSelection, error) {
	var selections []models.OptionSelection
	for _, opt := range session.UnansweredOptions() {
		if len(opt.AvailableList) == 0 {
			continue
		}
		selections = append(selections, models.OptionSelection{
			OptionID: opt.ID,
			Value:    opt.AvailableList[0].ID,
		})
	}
	return selections, nil
}
