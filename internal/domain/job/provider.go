package job

import (
	"context"
	"fmt"
	"net/url"

	"github.com/honeycarbs/offerscout/internal/domain"
)

// Provider wraps one external job-search API behind the canonical contract
type Provider interface {
	// Source identifies the provider, e.g. "adzuna"
	Source() domain.Source

	// Configured reports whether credentials are present. An unconfigured
	// provider answers every Search with ErrNotConfigured.
	Configured() bool

	// Search returns one normalized page for the filters. page is 1-based.
	Search(ctx context.Context, filters domain.SearchFilters, page int) (domain.SearchResult, error)
}

// ResultCache is the short-term cache consulted by providers before calling out
type ResultCache interface {
	Get(key string) (domain.SearchResult, bool)
	Set(key string, result domain.SearchResult)
}

// CacheKey derives the short-term cache key of one provider call from its
// encoded query and page. Credentials must not be part of query.
func CacheKey(source domain.Source, query url.Values, page int) string {
	return fmt.Sprintf("%s|%s|%d", source, query.Encode(), page)
}
