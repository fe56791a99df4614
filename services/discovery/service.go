package discovery

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/utils"
)

const defaultPageSize = 20

const queryProductRecommendations = `
query ProductRecommendations($filter: ProductRecommendationFilter!, $pageSize: Int!, $excludeIds: [ID!]) {
  productRecommendationList(filter: $filter, pageSize: $pageSize, excludeIds: $excludeIds) {
    nodes {
      id
      name
    }
  }
}`

const queryProductDetail = `
query ProductDetail($id: ID!) {
  product(id: $id) {
    id
    name
    description
    currency
    guidePrice { from to }
    duration
    location
    categories
    reviews { rating count }
    providerId
  }
}`

const querySuggestions = `
query Suggestions($filter: SuggestionFilter!) {
  suggestion(filter: $filter) {
    destination { id name type }
    destinations { id name type }
    tags
    searchTerms
  }
}`

// Discover resolves criteria into a page of full products. The upstream
// recommendation call returns only lightweight id+name pairs, so each hit is
// enriched with a concurrent detail fetch; an individual detail failure
// degrades that entry to the id+name stub instead of failing the batch.
func (s *DefaultDiscoveryService) Discover(ctx context.Context, criteria models.SearchCriteria, page Page) (*models.DiscoveryResult, error) {
	logger := utils.GetLogger()
	if page.Size <= 0 {
		page.Size = defaultPageSize
	}

	var resp struct {
		ProductRecommendationList struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"productRecommendationList"`
	}
	vars := map[string]any{
		"filter":   buildFilter(criteria),
		"pageSize": page.Size,
	}
	if len(page.ExcludeIDs) > 0 {
		vars["excludeIds"] = page.ExcludeIDs
	}
	if err := s.Transport.Execute(ctx, "ProductRecommendations", queryProductRecommendations, vars, &resp); err != nil {
		return nil, fmt.Errorf("product recommendation query failed: %w", err)
	}

	nodes := resp.ProductRecommendationList.Nodes
	products := make([]models.Product, len(nodes))
	var wg sync.WaitGroup
	for i, n := range nodes {
		// Stub first so a failed detail fetch still yields the entry.
		products[i] = models.Product{ID: n.ID, Name: n.Name, Basic: true}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			full, err := s.productDetail(ctx, id)
			if err != nil {
				logger.Warn("product detail fetch failed, keeping basic info",
					zap.String("productId", id), zap.Error(err))
				return
			}
			products[i] = *full
		}(i, n.ID)
	}
	wg.Wait()

	seen := append(append([]string{}, page.ExcludeIDs...), idsOf(products)...)
	return &models.DiscoveryResult{
		Products: products,
		// Approximation: the endpoint exposes no total count, so a full page
		// is read as "probably more".
		HasMore: len(products) == page.Size,
		SeenIDs: seen,
	}, nil
}

// Suggest returns typed autocomplete suggestions for partial criteria. Empty
// criteria short-circuit to an empty result without touching the upstream.
func (s *DefaultDiscoveryService) Suggest(ctx context.Context, criteria models.SearchCriteria) (*models.Suggestions, error) {
	if criteria.IsEmpty() {
		return &models.Suggestions{}, nil
	}

	var resp struct {
		Suggestion models.Suggestions `json:"suggestion"`
	}
	vars := map[string]any{"filter": buildFilter(criteria)}
	if err := s.Transport.Execute(ctx, "Suggestions", querySuggestions, vars, &resp); err != nil {
		return nil, fmt.Errorf("suggestion query failed: %w", err)
	}
	return &resp.Suggestion, nil
}

func (s *DefaultDiscoveryService) productDetail(ctx context.Context, id string) (*models.Product, error) {
	var resp struct {
		Product models.Product `json:"product"`
	}
	if err := s.Transport.Execute(ctx, "ProductDetail", queryProductDetail, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// buildFilter assembles the upstream where/when/who/what input from the typed
// criteria. Nil facets are omitted entirely.
func buildFilter(criteria models.SearchCriteria) map[string]any {
	filter := map[string]any{}
	if w := criteria.Where; w != nil && (w.Text != "" || w.PlaceID != "") {
		where := map[string]any{}
		if w.Text != "" {
			where["text"] = w.Text
		}
		if w.PlaceID != "" {
			where["placeId"] = w.PlaceID
		}
		filter["where"] = where
	}
	if w := criteria.When; w != nil && (w.Text != "" || w.Start != "" || w.End != "") {
		when := map[string]any{}
		if w.Text != "" {
			when["text"] = w.Text
		}
		if w.Start != "" {
			when["start"] = NormalizeRangeStart(w.Start)
		}
		if w.End != "" {
			when["end"] = NormalizeRangeEnd(w.End)
		}
		filter["when"] = when
	}
	if w := criteria.Who; w != nil && (w.Adults > 0 || w.Children > 0 || w.Infants > 0) {
		filter["who"] = map[string]any{
			"adults":   w.Adults,
			"children": w.Children,
			"infants":  w.Infants,
		}
	}
	if w := criteria.What; w != nil && (w.SearchTerm != "" || w.CategoryID != "" || w.MinPrice > 0 || w.MaxPrice > 0) {
		what := map[string]any{}
		if w.SearchTerm != "" {
			what["searchTerm"] = w.SearchTerm
		}
		if w.CategoryID != "" {
			what["categoryId"] = w.CategoryID
		}
		if w.MinPrice > 0 {
			what["minPrice"] = w.MinPrice
		}
		if w.MaxPrice > 0 {
			what["maxPrice"] = w.MaxPrice
		}
		filter["what"] = what
	}
	return filter
}

func idsOf(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
