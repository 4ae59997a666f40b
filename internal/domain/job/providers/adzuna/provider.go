package adzuna

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/fieldmap"
	jobdomain "github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	Country() string
	Values(params adzuna.SearchParams) url.Values
	Search(ctx context.Context, params adzuna.SearchParams) (*adzuna.SearchResponse, error)
}

var contractSynonyms = map[string]domain.ContractType{
	"permanent": domain.ContractCDI,
	"contract":  domain.ContractCDD,
	"full_time": domain.ContractCDI,
	"part_time": domain.ContractPartTime,
}

var currencyByCountry = map[string]string{
	"gb": "GBP",
	"us": "USD",
	"ca": "CAD",
	"au": "AUD",
	"ch": "CHF",
	"pl": "PLN",
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
	cache  jobdomain.ResultCache
	now    func() time.Time
}

// NewProvider builds an Adzuna provider. A nil client yields an unconfigured
// provider.
func NewProvider(client searchClient, cache jobdomain.ResultCache) *Provider {
	return &Provider{client: client, cache: cache, now: time.Now}
}

func (p *Provider) Source() domain.Source {
	return domain.SourceAdzuna
}

func (p *Provider) Configured() bool {
	return p != nil && p.client != nil
}

// Search queries Adzuna and returns normalized offers
func (p *Provider) Search(ctx context.Context, filters domain.SearchFilters, page int) (domain.SearchResult, error) {
	if !p.Configured() {
		return domain.SearchResult{}, jobdomain.ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}

	params := buildParams(filters, page)
	key := jobdomain.CacheKey(p.Source(), p.client.Values(params), page)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			return cached, nil
		}
	}

	resp, err := p.client.Search(ctx, params)
	if err != nil {
		return domain.SearchResult{}, err
	}

	result := p.transform(resp, page)
	if p.cache != nil {
		p.cache.Set(key, result)
	}
	return result, nil
}

func buildParams(filters domain.SearchFilters, page int) adzuna.SearchParams {
	what := filters.Query
	if filters.RemoteOnly {
		what = strings.TrimSpace(what + " remote")
	}

	params := adzuna.SearchParams{
		What:       what,
		Where:      filters.Location,
		MaxDaysOld: filters.PublishedWithinDays,
		SalaryMin:  filters.SalaryMin,
		SalaryMax:  filters.SalaryMax,
		Page:       page,
	}
	for _, ct := range filters.ContractTypes {
		switch ct {
		case domain.ContractCDI:
			params.Permanent = true
		case domain.ContractCDD, domain.ContractFreelance:
			params.Contract = true
		case domain.ContractPartTime:
			params.PartTime = true
		}
	}
	return params
}

func (p *Provider) transform(resp *adzuna.SearchResponse, page int) domain.SearchResult {
	offers := make([]domain.JobOffer, 0, len(resp.Results))
	for _, ad := range resp.Results {
		offers = append(offers, p.toOffer(ad))
	}

	return domain.SearchResult{
		Offers:      offers,
		TotalCount:  resp.Count,
		CurrentPage: page,
		TotalPages:  domain.TotalPages(resp.Count),
		HasMore:     page < domain.TotalPages(resp.Count),
	}
}

func (p *Provider) toOffer(ad adzuna.Posting) domain.JobOffer {
	id := ad.ID
	if id == "" {
		id = uuid.NewString()
	}

	contractRaw := ad.ContractType
	if contractRaw == "" {
		contractRaw = ad.ContractTime
	}

	publishedAt := p.now().UTC()
	if ts, err := time.Parse(time.RFC3339, ad.Created); err == nil {
		publishedAt = ts
	}

	tags := []string{}
	if ad.Category.Label != "" {
		tags = append(tags, ad.Category.Label)
	}
	if ad.ContractTime != "" && !slices.Contains(tags, ad.ContractTime) {
		tags = append(tags, ad.ContractTime)
	}

	return domain.JobOffer{
		ID:           id,
		Title:        fieldmap.Or(ad.Title, fieldmap.FallbackTitle),
		Company:      fieldmap.Or(ad.Company.DisplayName, fieldmap.FallbackCompany),
		Location:     fieldmap.Or(ad.Location.DisplayName, fieldmap.FallbackLocation),
		Description:  ad.Description,
		Requirements: fieldmap.ExtractRequirements(ad.Title, ad.Description),
		Salary:       p.salary(ad),
		ContractType: fieldmap.ContractType(contractRaw, contractSynonyms),
		Experience:   fieldmap.ExperienceFromText(ad.Title, ad.Description),
		Remote:       fieldmap.DetectRemote(ad.Title, ad.Description, ad.Location.DisplayName),
		PublishedAt:  publishedAt,
		URL:          ad.RedirectURL,
		Source:       domain.SourceAdzuna,
		Tags:         tags,
	}
}

func (p *Provider) salary(ad adzuna.Posting) *domain.Salary {
	if ad.SalaryMin <= 0 && ad.SalaryMax <= 0 {
		return nil
	}
	currency, ok := currencyByCountry[p.client.Country()]
	if !ok {
		currency = "EUR"
	}
	return &domain.Salary{
		Min:      ad.SalaryMin,
		Max:      ad.SalaryMax,
		Currency: currency,
		Period:   domain.PeriodYear,
	}
}

var _ jobdomain.Provider = (*Provider)(nil)
