package models

// Product is an immutable catalog entry sourced from upstream. This client
// never mutates products; it only reads them during discovery and catalog
// listing.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	GuidePrice  *PriceRange      `json:"guidePrice,omitempty"`
	Duration    string           `json:"duration,omitempty"` // e.g. "PT3H"
	Location    string           `json:"location,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	Reviews     *ReviewAggregate `json:"reviews,omitempty"`
	ProviderID  string           `json:"providerId,omitempty"`

	// Basic is true when only the lightweight id+name pair from the
	// discovery payload is populated (detail fetch failed or was skipped).
	Basic bool `json:"basic,omitempty"`
}

// PriceRange is the from/to guide price of a product.
type PriceRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to,omitempty"`
}

// ReviewAggregate summarizes upstream ratings for a product.
type ReviewAggregate struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// DiscoveryResult is one page of discovered products.
type DiscoveryResult struct {
	Products []Product `json:"products"`
	// HasMore is an approximation: true when the returned count equals the
	// requested page size. The upstream recommendation endpoint exposes no
	// real total count or cursor.
	HasMore bool `json:"hasMore"`
	// SeenIDs accumulates every product id returned so far; pass it back as
	// the exclusion list to fetch the next batch.
	SeenIDs []string `json:"seenIds"`
}
