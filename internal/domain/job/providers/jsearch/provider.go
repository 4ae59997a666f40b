package jsearch

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
	"github.com/honeycarbs/offerscout/pkg/jsearch"
)

// JSearch returns at most this many postings per page
const pageSize = 10

type searchClient interface {
	Values(params jsearch.SearchParams) url.Values
	Search(ctx context.Context, params jsearch.SearchParams) (*jsearch.SearchResponse, error)
}

var contractSynonyms = map[string]domain.ContractType{
	"fulltime":   domain.ContractCDI,
	"parttime":   domain.ContractPartTime,
	"contractor": domain.ContractFreelance,
	"intern":     domain.ContractStage,
}

var employmentTypes = map[domain.ContractType]string{
	domain.ContractCDI:        "FULLTIME",
	domain.ContractPartTime:   "PARTTIME",
	domain.ContractCDD:        "CONTRACTOR",
	domain.ContractFreelance:  "CONTRACTOR",
	domain.ContractStage:      "INTERN",
	domain.ContractAlternance: "INTERN",
}

var jobRequirements = map[domain.ExperienceLevel]string{
	domain.ExperienceBeginner:  "no_experience",
	domain.ExperienceJunior:    "under_3_years_experience",
	domain.ExperienceConfirmed: "more_than_3_years_experience",
	domain.ExperienceSenior:    "more_than_3_years_experience",
	domain.ExperienceExpert:    "more_than_3_years_experience",
}

// Provider implements job.Provider using the JSearch API
type Provider struct {
	client searchClient
	cache  jobdomain.ResultCache
	now    func() time.Time
}

// NewProvider builds a JSearch provider. A nil client yields an unconfigured
// provider.
func NewProvider(client searchClient, cache jobdomain.ResultCache) *Provider {
	return &Provider{client: client, cache: cache, now: time.Now}
}

func (p *Provider) Source() domain.Source {
	return domain.SourceJSearch
}

func (p *Provider) Configured() bool {
	return p != nil && p.client != nil
}

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

	offers := make([]domain.JobOffer, 0, len(resp.Data))
	for _, j := range resp.Data {
		offers = append(offers, p.toOffer(j))
	}

	// JSearch reports no overall count
	result := domain.SearchResult{
		Offers:      offers,
		TotalCount:  len(offers),
		CurrentPage: page,
		TotalPages:  domain.TotalPages(len(offers)),
		HasMore:     len(resp.Data) >= pageSize,
	}
	if p.cache != nil {
		p.cache.Set(key, result)
	}
	return result, nil
}

func buildParams(filters domain.SearchFilters, page int) jsearch.SearchParams {
	query := strings.TrimSpace(filters.Query)
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		if query == "" {
			query = "jobs"
		}
		query += " in " + loc
	}

	params := jsearch.SearchParams{
		Query:      query,
		Page:       page,
		DatePosted: datePosted(filters.PublishedWithinDays),
		RemoteOnly: filters.RemoteOnly,
	}
	for _, ct := range filters.ContractTypes {
		if v, ok := employmentTypes[ct]; ok && !slices.Contains(params.EmploymentTypes, v) {
			params.EmploymentTypes = append(params.EmploymentTypes, v)
		}
	}
	for _, lvl := range filters.ExperienceLevels {
		if v, ok := jobRequirements[lvl]; ok && !slices.Contains(params.JobRequirements, v) {
			params.JobRequirements = append(params.JobRequirements, v)
		}
	}
	return params
}

func datePosted(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 1:
		return "today"
	case days <= 3:
		return "3days"
	case days <= 7:
		return "week"
	default:
		return "month"
	}
}

func (p *Provider) toOffer(j jsearch.Job) domain.JobOffer {
	id := j.ID
	if id == "" {
		id = uuid.NewString()
	}

	publishedAt := p.now().UTC()
	if ts, err := time.Parse(time.RFC3339, j.PostedAtUTC); err == nil {
		publishedAt = ts
	}

	var expiresAt *time.Time
	if ts, err := time.Parse(time.RFC3339, j.ExpiresAtUTC); err == nil {
		expiresAt = &ts
	}

	reqs := fieldmap.ExtractRequirements(j.Title, j.Description)
	if len(reqs) == 0 && len(j.RequiredSkills) > 0 {
		reqs = append(reqs, j.RequiredSkills[:min(len(j.RequiredSkills), fieldmap.MaxRequirements)]...)
	}

	tags := []string{}
	for _, t := range []string{j.Publisher, j.EmploymentType} {
		if t != "" {
			tags = append(tags, t)
		}
	}

	return domain.JobOffer{
		ID:           id,
		Title:        fieldmap.Or(j.Title, fieldmap.FallbackTitle),
		Company:      fieldmap.Or(j.EmployerName, fieldmap.FallbackCompany),
		Location:     fieldmap.Or(joinNonEmpty(j.City, j.State, j.Country), fieldmap.FallbackLocation),
		Description:  j.Description,
		Requirements: reqs,
		Salary:       salary(j),
		ContractType: fieldmap.ContractType(j.EmploymentType, contractSynonyms),
		Experience:   experience(j),
		Remote:       j.IsRemote || fieldmap.DetectRemote(j.Title),
		PublishedAt:  publishedAt,
		ExpiresAt:    expiresAt,
		URL:          j.ApplyLink,
		Source:       domain.SourceJSearch,
		Tags:         tags,
		CompanyLogo:  j.EmployerLogo,
	}
}

func experience(j jsearch.Job) domain.ExperienceLevel {
	switch {
	case j.RequiredExperience.RequiredMonths != nil:
		return fieldmap.ExperienceFromMonths(*j.RequiredExperience.RequiredMonths)
	case j.RequiredExperience.NoExperienceRequired:
		return domain.ExperienceJunior
	}
	if lvl := fieldmap.ExperienceFromHint(j.Title); lvl != fieldmap.DefaultExperience {
		return lvl
	}
	return fieldmap.ExperienceFromText(j.Title, j.Description)
}

func salary(j jsearch.Job) *domain.Salary {
	if j.MinSalary == nil && j.MaxSalary == nil {
		return nil
	}
	s := &domain.Salary{
		Currency: fieldmap.Or(j.SalaryCurrency, "EUR"),
		Period:   fieldmap.SalaryPeriod(j.SalaryPeriod),
	}
	if j.MinSalary != nil {
		s.Min = *j.MinSalary
	}
	if j.MaxSalary != nil {
		s.Max = *j.MaxSalary
	}
	return s
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

var _ jobdomain.Provider = (*Provider)(nil)
