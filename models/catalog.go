package models

// Category is an upstream product category, optionally scoped to a place.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Place is a destination node in the upstream place hierarchy.
type Place struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"` // COUNTRY, REGION, CITY, ...
	ParentID string `json:"parentId,omitempty"`
}

// ProviderSummary is one entry of the aggregate provider-tree query: the
// supplier id, its display label and how many products it carries. Fetching
// this tree is O(unique providers) where walking the product list would be
// O(total products).
type ProviderSummary struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	ProductCount int    `json:"productCount"`
}
