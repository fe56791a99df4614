package models

// SearchCriteria is the typed input for product discovery and suggestions.
// Each facet is optional; a nil facet contributes nothing to the upstream
// filter. Keeping the facets as separate structs lets malformed criteria be
// rejected at compile time instead of at the network boundary.
type SearchCriteria struct {
	Where *WhereFacet `json:"where,omitempty"`
	When  *WhenFacet  `json:"when,omitempty"`
	Who   *WhoFacet   `json:"who,omitempty"`
	What  *WhatFacet  `json:"what,omitempty"`
}

// WhereFacet scopes discovery to a location.
type WhereFacet struct {
	Text    string `json:"text,omitempty"`
	PlaceID string `json:"placeId,omitempty"`
}

// WhenFacet scopes discovery to a date range. Start/End accept either a full
// ISO-8601 timestamp or a bare YYYY-MM-DD date; bare dates are normalized by
// the discovery service before reaching the wire.
type WhenFacet struct {
	Text  string `json:"text,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// WhoFacet describes the traveler composition.
type WhoFacet struct {
	Adults   int `json:"adults,omitempty"`
	Children int `json:"children,omitempty"`
	Infants  int `json:"infants,omitempty"`
}

// WhatFacet describes the activity being searched for.
type WhatFacet struct {
	SearchTerm string  `json:"searchTerm,omitempty"`
	CategoryID string  `json:"categoryId,omitempty"`
	MinPrice   float64 `json:"minPrice,omitempty"`
	MaxPrice   float64 `json:"maxPrice,omitempty"`
}

// IsEmpty reports whether no facet carries any input.
func (c SearchCriteria) IsEmpty() bool {
	return (c.Where == nil || (c.Where.Text == "" && c.Where.PlaceID == "")) &&
		(c.When == nil || (c.When.Text == "" && c.When.Start == "" && c.When.End == "")) &&
		(c.Who == nil || (c.Who.Adults == 0 && c.Who.Children == 0 && c.Who.Infants == 0)) &&
		(c.What == nil || (c.What.SearchTerm == "" && c.What.CategoryID == "" && c.What.MinPrice == 0 && c.What.MaxPrice == 0))
}

// Suggestions is the typed autocomplete result.
type Suggestions struct {
	Destination  *Place   `json:"destination,omitempty"`
	Destinations []Place  `json:"destinations"`
	Tags         []string `json:"tags"`
	SearchTerms  []string `json:"searchTerms"`
}
