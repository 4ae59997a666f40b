package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

// SearchOffersParams defines the arguments for the search_offers tool
type SearchOffersParams struct {
	Filters FiltersInput `json:"filters,omitempty" jsonschema:"Search filters, every field optional"`
	Page    int          `json:"page,omitempty" jsonschema:"1-based page number, 20 offers per page"`
}

// SearchForCVParams defines the arguments for the search_offers_for_cv tool
type SearchForCVParams struct {
	Keywords []string `json:"keywords" jsonschema:"Keywords extracted from a CV, the first five are used"`
	Location string   `json:"location,omitempty" jsonschema:"Defaults to France"`
	Page     int      `json:"page,omitempty" jsonschema:"1-based page number"`
}

type searchTool struct {
	service job.Service
	logger  *logging.Logger
}

// WithSearchTools registers search_offers and search_offers_for_cv
func WithSearchTools(service job.Service) Option {
	return func(reg *registry) {
		h := searchTool{service: service, logger: reg.logger}
		addTool(reg, "search_offers",
			"Search job offers across Adzuna, JSearch and France Travail; results are merged, deduplicated and sorted newest first",
			h.search)
		addTool(reg, "search_offers_for_cv",
			"Search recent offers (last 30 days) matching keywords extracted from a CV",
			h.searchForCV)
	}
}

func (t searchTool) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchOffersParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	filters, err := params.Filters.Filters()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid filters: %w", err)
	}

	t.logger.Info("search_offers request", "filters", filters.Key(), "page", params.Page)

	result, err := t.service.Search(ctx, filters, params.Page)
	if err != nil {
		t.logger.Warn("search_offers failed", "err", err)
		return nil, nil, err
	}

	return textResult(summarize("search_offers", describe(filters), result)), result, nil
}

func (t searchTool) searchForCV(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchForCVParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}

	filters := job.CVFilters(params.Keywords, params.Location)
	if filters.Query == "" {
		return nil, nil, fmt.Errorf("at least one non-blank keyword is required")
	}

	t.logger.Info("search_offers_for_cv request", "query", filters.Query, "location", filters.Location)

	result, err := t.service.SearchForCV(ctx, params.Keywords, params.Location, params.Page)
	if err != nil {
		t.logger.Warn("search_offers_for_cv failed", "err", err)
		return nil, nil, err
	}

	return textResult(summarize("search_offers_for_cv", describe(filters), result)), result, nil
}

func summarize(tool, what string, result domain.SearchResult) string {
	if len(result.Offers) == 0 {
		return fmt.Sprintf("[%s] No offers found for %s", tool, what)
	}

	msg := fmt.Sprintf("[%s] %d offer(s) for %s, page %d/%d (total %d)\n",
		tool, len(result.Offers), what, result.CurrentPage, result.TotalPages, result.TotalCount)
	for _, o := range result.Offers {
		msg += fmt.Sprintf("\n• %s, %s (%s) [%s]", o.Title, o.Company, o.Location, o.Source)
	}
	return msg
}
