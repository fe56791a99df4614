package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/utils"
)

const defaultCacheTTL = 10 * time.Minute

const queryCategoryList = `
query CategoryList($placeId: ID) {
  categoryList(placeId: $placeId) {
    nodes { id name }
  }
}`

const queryPlaceList = `
query PlaceList($parentId: ID, $type: PlaceType) {
  placeList(parentId: $parentId, type: $type) {
    nodes { id name type parentId }
  }
}`

const queryProviderTree = `
query ProviderTree {
  providerTree {
    nodes { id label productCount }
  }
}`

const queryProviderProducts = `
query ProviderProducts($providerId: ID!) {
  productList(providerId: $providerId) {
    nodes {
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
  }
}`

func (s *DefaultCatalogService) Categories(ctx context.Context, placeID string) ([]models.Category, error) {
	key := "catalog:categories:" + placeID
	var cached []models.Category
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var resp struct {
		CategoryList struct {
			Nodes []models.Category `json:"nodes"`
		} `json:"categoryList"`
	}
	vars := map[string]any{}
	if placeID != "" {
		vars["placeId"] = placeID
	}
	if err := s.Transport.Execute(ctx, "CategoryList", queryCategoryList, vars, &resp); err != nil {
		return nil, fmt.Errorf("category list failed: %w", err)
	}
	s.cacheSet(ctx, key, resp.CategoryList.Nodes)
	return resp.CategoryList.Nodes, nil
}

func (s *DefaultCatalogService) Places(ctx context.Context, parentID, placeType string) ([]models.Place, error) {
	key := "catalog:places:" + parentID + ":" + placeType
	var cached []models.Place
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var resp struct {
		PlaceList struct {
			Nodes []models.Place `json:"nodes"`
		} `json:"placeList"`
	}
	vars := map[string]any{}
	if parentID != "" {
		vars["parentId"] = parentID
	}
	if placeType != "" {
		vars["type"] = placeType
	}
	if err := s.Transport.Execute(ctx, "PlaceList", queryPlaceList, vars, &resp); err != nil {
		return nil, fmt.Errorf("place list failed: %w", err)
	}
	s.cacheSet(ctx, key, resp.PlaceList.Nodes)
	return resp.PlaceList.Nodes, nil
}

func (s *DefaultCatalogService) Providers(ctx context.Context) ([]models.ProviderSummary, error) {
	key := "catalog:providers"
	var cached []models.ProviderSummary
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var resp struct {
		ProviderTree struct {
			Nodes []models.ProviderSummary `json:"nodes"`
		} `json:"providerTree"`
	}
	if err := s.Transport.Execute(ctx, "ProviderTree", queryProviderTree, nil, &resp); err != nil {
		return nil, fmt.Errorf("provider tree failed: %w", err)
	}
	s.cacheSet(ctx, key, resp.ProviderTree.Nodes)
	return resp.ProviderTree.Nodes, nil
}

func (s *DefaultCatalogService) ProviderProducts(ctx context.Context, providerID string) ([]models.Product, error) {
	key := "catalog:provider-products:" + providerID
	var cached []models.Product
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var resp struct {
		ProductList struct {
			Nodes []models.Product `json:"nodes"`
		} `json:"productList"`
	}
	vars := map[string]any{"providerId": providerID}
	if err := s.Transport.Execute(ctx, "ProviderProducts", queryProviderProducts, vars, &resp); err != nil {
		return nil, fmt.Errorf("provider product list failed: %w", err)
	}
	s.cacheSet(ctx, key, resp.ProductList.Nodes)
	return resp.ProductList.Nodes, nil
}

// cacheGet reports true and fills out when the key is present and decodes.
func (s *DefaultCatalogService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.Store == nil {
		return false
	}
	raw, err := s.Store.Get(ctx, key)
	if err != nil {
		if err != utils.ErrStoreMiss {
			utils.GetLogger().Debug("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		utils.GetLogger().Debug("catalog cache entry malformed, evicting", zap.String("key", key))
		_ = s.Store.Delete(ctx, key)
		return false
	}
	return true
}

func (s *DefaultCatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.Store == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if err := s.Store.Set(ctx, key, raw, ttl); err != nil {
		utils.GetLogger().Debug("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
