package catalog

import (
	"context"
	"time"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/transport"
	"github.com/ceverett10/holibob-booking/utils"
)

// Service is the read-only catalog surface: categories, places and providers
// used to scope discovery and to build supplier-microsite product listings.
type Service interface {
	// Categories lists product categories, optionally scoped by place.
	Categories(ctx context.Context, placeID string) ([]models.Category, error)
	// Places lists destinations, optionally scoped by parent and type.
	Places(ctx context.Context, parentID, placeType string) ([]models.Place, error)
	// Providers returns the aggregate provider tree (id, label, product
	// count) in one call rather than walking the full product list.
	Providers(ctx context.Context) ([]models.ProviderSummary, error)
	// ProviderProducts returns every product of one provider. The upstream
	// endpoint has no pagination: this is a single unbounded fetch.
	ProviderProducts(ctx context.Context, providerID string) ([]models.Product, error)
}

// DefaultCatalogService implements Service with best-effort TTL caching.
// Catalog data changes rarely, so reads are served from the injected store
// when possible; any store failure falls through to the transport.
type DefaultCatalogService struct {
	Transport transport.Client
	Store     utils.KeyValueStore // nil disables caching
	CacheTTL  time.Duration       // default 10 minutes
}

func NewService(t transport.Client, store utils.KeyValueStore) *DefaultCatalogService {
	return &DefaultCatalogService{Transport: t, Store: store}
}
