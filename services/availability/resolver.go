package availability

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/services/discovery"
	"github.com/ceverett10/holibob-booking/utils"
)

const defaultMaxRounds = 10

const sessionFields = `
    id
    nodes {
      id
      date
      startTime
      soldOut
      price
    }
    optionList {
      isComplete
      options {
        id
        label
        dataType
        answer
        availableOptions { id label }
      }
    }`

const mutationAvailabilityCreate = `
mutation AvailabilityCreate($filter: AvailabilityFilter!) {
  availabilityCreate(filter: $filter) {` + sessionFields + `
  }
}`

const queryAvailabilityAdvance = `
query AvailabilityAdvance($id: ID!, $selections: [OptionSelectionInput!]) {
  availability(id: $id, optionSelections: $selections) {` + sessionFields + `
  }
}`

const queryAvailabilityPricing = `
query AvailabilityPricing($id: ID!) {
  availability(id: $id) {
    pricingCategoryList {
      nodes {
        id
        label
        unitPrice
        units
        minUnits
        maxUnits
      }
    }
  }
}`

const mutationAvailabilityPricingSet = `
mutation AvailabilityPricingSet($id: ID!, $categories: [PricingCategoryUnitsInput!]!) {
  availabilityPricingUpdate(id: $id, categories: $categories) {
    totalPrice
    currency
    pricingCategoryList {
      nodes {
        id
        label
        unitPrice
        units
      }
    }
  }
}`

// sessionPayload is the wire shape shared by the create and advance calls.
type sessionPayload struct {
	ID         string                    `json:"id"`
	Nodes      []models.AvailabilityNode `json:"nodes"`
	OptionList models.OptionList         `json:"optionList"`
}

func (p sessionPayload) apply(productID string, session *models.AvailabilitySession) {
	session.SessionID = p.ID
	session.ProductID = productID
	session.Nodes = p.Nodes
	session.OptionList = p.OptionList
}

func (r *DefaultResolver) Open(ctx context.Context, productID, start, end string) (*models.AvailabilitySession, error) {
	var resp struct {
		AvailabilityCreate sessionPayload `json:"availabilityCreate"`
	}
	vars := map[string]any{
		"filter": map[string]any{
			"productId": productID,
			"startDate": discovery.NormalizeRangeStart(start),
			"endDate":   discovery.NormalizeRangeEnd(end),
		},
	}
	if err := r.Transport.Execute(ctx, "AvailabilityCreate", mutationAvailabilityCreate, vars, &resp); err != nil {
		return nil, fmt.Errorf("availability create failed: %w", err)
	}

	session := &models.AvailabilitySession{}
	resp.AvailabilityCreate.apply(productID, session)
	utils.GetLogger().Debug("availability session opened",
		zap.String("sessionId", session.SessionID),
		zap.String("productId", productID),
		zap.Bool("optionsComplete", session.OptionList.IsComplete))
	return session, nil
}

func (r *DefaultResolver) Advance(ctx context.Context, session *models.AvailabilitySession, selections []models.OptionSelection) error {
	var resp struct {
		Availability sessionPayload `json:"availability"`
	}
	sel := make([]map[string]any, 0, len(selections))
	for _, s := range selections {
		sel = append(sel, map[string]any{"optionId": s.OptionID, "value": s.Value})
	}
	vars := map[string]any{"id": session.SessionID, "selections": sel}
	if err := r.Transport.Execute(ctx, "AvailabilityAdvance", queryAvailabilityAdvance, vars, &resp); err != nil {
		return fmt.Errorf("availability advance failed: %w", err)
	}
	resp.Availability.apply(session.ProductID, session)
	return nil
}

func (r *DefaultResolver) Resolve(ctx context.Context, productID, start, end string, choose OptionChooser) (*models.AvailabilitySession, error) {
	if choose == nil {
		choose = FirstChoiceChooser
	}
	session, err := r.Open(ctx, productID, start, end)
	if err != nil {
		return nil, err
	}

	maxRounds := r.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	for round := 0; !session.OptionList.IsComplete; round++ {
		if round >= maxRounds {
			return nil, &NoConvergenceError{SessionID: session.SessionID, Rounds: maxRounds}
		}
		selections, err := choose(session)
		if err != nil {
			return nil, fmt.Errorf("option chooser failed: %w", err)
		}
		if err := r.Advance(ctx, session, selections); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (r *DefaultResolver) Pricing(ctx context.Context, session *models.AvailabilitySession) ([]models.PricingCategory, error) {
	if !session.OptionList.IsComplete {
		return nil, &PricingNotReadyError{SessionID: session.SessionID}
	}

	var resp struct {
		Availability struct {
			PricingCategoryList struct {
				Nodes []models.PricingCategory `json:"nodes"`
			} `json:"pricingCategoryList"`
		} `json:"availability"`
	}
	vars := map[string]any{"id": session.SessionID}
	if err := r.Transport.Execute(ctx, "AvailabilityPricing", queryAvailabilityPricing, vars, &resp); err != nil {
		return nil, fmt.Errorf("availability pricing failed: %w", err)
	}
	session.PricingCategories = resp.Availability.PricingCategoryList.Nodes
	return session.PricingCategories, nil
}

func (r *DefaultResolver) SetPricing(ctx context.Context, session *models.AvailabilitySession, units map[string]int) (float64, error) {
	if !session.OptionList.IsComplete {
		return 0, &PricingNotReadyError{SessionID: session.SessionID}
	}

	categories := make([]map[string]any, 0, len(units))
	for id, n := range units {
		categories = append(categories, map[string]any{"id": id, "units": n})
	}

	var resp struct {
		AvailabilityPricingUpdate struct {
			TotalPrice          float64 `json:"totalPrice"`
			Currency            string  `json:"currency"`
			PricingCategoryList struct {
				Nodes []models.PricingCategory `json:"nodes"`
			} `json:"pricingCategoryList"`
		} `json:"availabilityPricingUpdate"`
	}
	vars := map[string]any{"id": session.SessionID, "categories": categories}
	if err := r.Transport.Execute(ctx, "AvailabilityPricingSet", mutationAvailabilityPricingSet, vars, &resp); err != nil {
		return 0, fmt.Errorf("availability pricing update failed: %w", err)
	}

	session.PricingCategories = resp.AvailabilityPricingUpdate.PricingCategoryList.Nodes
	session.TotalPrice = resp.AvailabilityPricingUpdate.TotalPrice
	session.Currency = resp.AvailabilityPricingUpdate.Currency
	session.MarkPriced()
	utils.GetLogger().Debug("availability session priced",
		zap.String("sessionId", session.SessionID),
		zap.Float64("totalPrice", session.TotalPrice))
	return session.TotalPrice, nil
}
