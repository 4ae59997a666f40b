package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

// RecentSearchesParams defines the arguments for the recent_searches tool
type RecentSearchesParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of searches, all when omitted"`
}

// RecentSearchesResult lists saved searches, most recent first
type RecentSearchesResult struct {
	Searches []domain.SearchFilters `json:"searches"`
}

// CacheStatsParams takes no arguments
type CacheStatsParams struct{}

// InvalidateSearchParams defines the arguments for the invalidate_search tool
type InvalidateSearchParams struct {
	Filters FiltersInput `json:"filters" jsonschema:"Filters of the saved search to drop"`
}

// ClearCachesParams takes no arguments
type ClearCachesParams struct{}

// StatusResult acknowledges a cache mutation
type StatusResult struct {
	Message string `json:"message"`
}

type cacheTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithCacheTools registers the search history and cache maintenance tools
func WithCacheTools(service job.Service) Option {
	return func(reg *registry) {
		h := cacheTool{service: service, logger: reg.logger}
		addTool(reg, "recent_searches", "List recently saved searches, most recent first", h.recent)
		addTool(reg, "cache_stats", "Count saved searches by freshness", h.stats)
		addTool(reg, "invalidate_search", "Drop the saved result of one search", h.invalidate)
		addTool(reg, "clear_caches", "Empty the short-term provider cache and the saved search history", h.clear)
	}
}

func (t cacheTool) recent(ctx context.Context, _ *sdkmcp.CallToolRequest, params RecentSearchesParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	searches := t.service.RecentSearches(ctx, params.Limit)
	if searches == nil {
		searches = []domain.SearchFilters{}
	}

	msg := fmt.Sprintf("[recent_searches] %d saved search(es)", len(searches))
	for i, f := range searches {
		msg += fmt.Sprintf("\n%d. %s", i+1, describe(f))
	}
	return textResult(msg), RecentSearchesResult{Searches: searches}, nil
}

func (t cacheTool) stats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ CacheStatsParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	stats := t.service.CacheStats(ctx)
	msg := fmt.Sprintf("[cache_stats] total=%d recent=%d expired=%d", stats.Total, stats.Recent, stats.Expired)
	return textResult(msg), stats, nil
}

func (t cacheTool) invalidate(ctx context.Context, _ *sdkmcp.CallToolRequest, params InvalidateSearchParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	filters, err := params.Filters.Filters()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid filters: %w", err)
	}

	t.service.InvalidateSearch(ctx, filters)
	t.logger.Info("search invalidated", "filters", filters.Key())

	res := StatusResult{Message: "invalidated saved search for " + describe(filters)}
	return textResult("[invalidate_search] " + res.Message), res, nil
}

func (t cacheTool) clear(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ClearCachesParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	t.service.ClearCaches(ctx)

	res := StatusResult{Message: "caches cleared"}
	return textResult("[clear_caches] " + res.Message), res, nil
}
