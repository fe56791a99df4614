package discovery

import (
	"context"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/transport"
)

// Page controls discovery pagination. The upstream recommendation endpoint
// has no cursor; instead the ids already shown are passed forward so upstream
// excludes them from the next batch.
type Page struct {
	Size       int
	ExcludeIDs []string
}

// Service resolves free-text location/activity/date/traveler input into
// product candidates and typed suggestions.
type Service interface {
	Discover(ctx context.Context, criteria models.SearchCriteria, page Page) (*models.DiscoveryResult, error)
	Suggest(ctx context.Context, criteria models.SearchCriteria) (*models.Suggestions, error)
}

// DefaultDiscoveryService implements Service over the signed transport.
type DefaultDiscoveryService struct {
	Transport transport.Client
}

func NewService(t transport.Client) *DefaultDiscoveryService {
	return &DefaultDiscoveryService{Transport: t}
}
