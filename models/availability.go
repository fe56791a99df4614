package models

// AvailabilityState labels the progress of one availability negotiation.
type AvailabilityState string

const (
	AvailabilityNoSession       AvailabilityState = "NO_SESSION"
	AvailabilityAwaitingOptions AvailabilityState = "AWAITING_OPTIONS"
	AvailabilityOptionsComplete AvailabilityState = "OPTIONS_COMPLETE"
	AvailabilityPriced          AvailabilityState = "PRICED"
)

// AvailabilitySession is one in-progress negotiation for a product over a
// date range. It is created by the first availability call, mutated by each
// option-set round, and becomes effectively immutable once the option list is
// complete and pricing has been fetched.
type AvailabilitySession struct {
	SessionID  string             `json:"sessionId"` // opaque continuation token issued by upstream
	ProductID  string             `json:"productId"`
	Nodes      []AvailabilityNode `json:"nodes"`
	OptionList OptionList         `json:"optionList"`

	PricingCategories []PricingCategory `json:"pricingCategories,omitempty"`
	TotalPrice        float64           `json:"totalPrice,omitempty"`
	Currency          string            `json:"currency,omitempty"`
	priced            bool
}

// AvailabilityNode is a candidate time slot or product variant.
type AvailabilityNode struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime,omitempty"`
	SoldOut   bool    `json:"soldOut,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

// OptionList is the set of selections still required before pricing is
// possible.
type OptionList struct {
	IsComplete bool     `json:"isComplete"`
	Options    []Option `json:"options"`
}

// Option is a single required selection (time slot, variant, extras).
type Option struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	DataType      string         `json:"dataType,omitempty"`
	Answer        string         `json:"answer,omitempty"`
	AvailableList []OptionChoice `json:"availableOptions,omitempty"`
}

// OptionChoice is one selectable value for an Option.
type OptionChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionSelection answers one option by id.
type OptionSelection struct {
	OptionID string `json:"optionId"`
	Value    string `json:"value"`
}

// PricingCategory is a named traveler tier (adult, child, ...) with a unit
// price and a caller-set unit count. Valid only after the owning session is
// option-complete.
type PricingCategory struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	UnitPrice float64 `json:"unitPrice"`
	Units     int     `json:"units"`
	MinUnits  int     `json:"minUnits,omitempty"`
	MaxUnits  int     `json:"maxUnits,omitempty"`
}

// State derives the session's position in the negotiation. It is never
// stored; deriving it keeps the struct from carrying a second source of
// truth.
func (s *AvailabilitySession) State() AvailabilityState {
	switch {
	case s == nil || s.SessionID == "":
		return AvailabilityNoSession
	case !s.OptionList.IsComplete:
		return AvailabilityAwaitingOptions
	case !s.priced:
		return AvailabilityOptionsComplete
	default:
		return AvailabilityPriced
	}
}

// MarkPriced records that pricing has been fetched and the session is final.
func (s *AvailabilitySession) MarkPriced() { s.priced = true }

// UnansweredOptions returns the options that still need a selection.
func (s *AvailabilitySession) UnansweredOptions() []Option {
	var out []Option
	for _, o := range s.OptionList.Options {
		if o.Answer == "" {
			out = append(out, o)
		}
	}
	return out
}
