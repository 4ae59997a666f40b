package francetravail

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
	"github.com/honeycarbs/offerscout/pkg/francetravail"
)

const detailURL = "https://candidat.francetravail.fr/offres/recherche/detail/"

// publieeDepuis only accepts these day counts
var publishedWindows = []int{1, 3, 7, 14, 31}

type searchClient interface {
	Values(params francetravail.SearchParams) url.Values
	Search(ctx context.Context, params francetravail.SearchParams) (*francetravail.SearchResponse, error)
}

var contractSynonyms = map[string]domain.ContractType{
	"cdi": domain.ContractCDI,
	"cdd": domain.ContractCDD,
	"mis": domain.ContractCDD,
	"sai": domain.ContractCDD,
	"lib": domain.ContractFreelance,
	"fra": domain.ContractFreelance,
}

var contractCodes = map[domain.ContractType]string{
	domain.ContractCDI:       "CDI",
	domain.ContractCDD:       "CDD",
	domain.ContractFreelance: "LIB",
}

var experienceCodes = map[domain.ExperienceLevel]string{
	domain.ExperienceBeginner:  "1",
	domain.ExperienceJunior:    "2",
	domain.ExperienceConfirmed: "3",
	domain.ExperienceSenior:    "3",
	domain.ExperienceExpert:    "3",
}

// Provider implements job.Provider using the France Travail offers API
type Provider struct {
	client searchClient
	cache  jobdomain.ResultCache
	now    func() time.Time
}

// NewProvider builds a France Travail provider. A nil client yields an
// unconfigured provider.
func NewProvider(client searchClient, cache jobdomain.ResultCache) *Provider {
	return &Provider{client: client, cache: cache, now: time.Now}
}

func (p *Provider) Source() domain.Source {
	return domain.SourceFranceTravail
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

	offers := make([]domain.JobOffer, 0, len(resp.Resultats))
	for _, o := range resp.Resultats {
		offers = append(offers, p.toOffer(o))
	}

	result := domain.SearchResult{
		Offers:      offers,
		TotalCount:  resp.Total,
		CurrentPage: page,
		TotalPages:  domain.TotalPages(resp.Total),
		HasMore:     page < domain.TotalPages(resp.Total),
	}
	if p.cache != nil {
		p.cache.Set(key, result)
	}
	return result, nil
}

// buildParams maps filters onto the offers API. The API has no free-text
// location, so the location joins the keywords.
func buildParams(filters domain.SearchFilters, page int) francetravail.SearchParams {
	start := (page - 1) * domain.PageSize

	params := francetravail.SearchParams{
		MotsCles:      strings.TrimSpace(filters.Query + " " + filters.Location),
		PublieeDepuis: publishedWindow(filters.PublishedWithinDays),
		SalaireMin:    filters.SalaryMin,
		Start:         start,
		End:           start + domain.PageSize - 1,
	}
	for _, ct := range filters.ContractTypes {
		if ct == domain.ContractAlternance {
			params.Alternance = true
			continue
		}
		if code, ok := contractCodes[ct]; ok && !slices.Contains(params.TypeContrat, code) {
			params.TypeContrat = append(params.TypeContrat, code)
		}
	}
	for _, lvl := range filters.ExperienceLevels {
		if code, ok := experienceCodes[lvl]; ok && !slices.Contains(params.Experience, code) {
			params.Experience = append(params.Experience, code)
		}
	}
	return params
}

// publishedWindow rounds days up to the nearest accepted window
func publishedWindow(days int) int {
	if days <= 0 {
		return 0
	}
	for _, w := range publishedWindows {
		if days <= w {
			return w
		}
	}
	return publishedWindows[len(publishedWindows)-1]
}

func (p *Provider) toOffer(o francetravail.Offre) domain.JobOffer {
	id := o.ID
	if id == "" {
		id = uuid.NewString()
	}

	publishedAt := p.now().UTC()
	if ts, err := time.Parse(time.RFC3339, o.DateCreation); err == nil {
		publishedAt = ts
	}

	link := o.OrigineOffre.URLOrigine
	if link == "" && o.ID != "" {
		link = detailURL + o.ID
	}

	reqs := fieldmap.ExtractRequirements(o.Intitule, o.Description)
	for _, c := range o.Competences {
		if len(reqs) >= fieldmap.MaxRequirements {
			break
		}
		if c.Libelle != "" && !slices.Contains(reqs, c.Libelle) {
			reqs = append(reqs, c.Libelle)
		}
	}

	tags := []string{}
	for _, t := range []string{o.TypeContratLibelle, o.QualificationLibelle, o.SecteurActiviteLibelle} {
		if t != "" {
			tags = append(tags, t)
		}
	}

	var salary *domain.Salary
	if o.Salaire.Libelle != "" {
		salary = fieldmap.ParseSalaryLabel(o.Salaire.Libelle)
	}

	return domain.JobOffer{
		ID:           id,
		Title:        fieldmap.Or(o.Intitule, fieldmap.FallbackTitle),
		Company:      fieldmap.Or(o.Entreprise.Nom, fieldmap.FallbackCompany),
		Location:     fieldmap.Or(o.LieuTravail.Libelle, fieldmap.FallbackLocation),
		Description:  o.Description,
		Requirements: reqs,
		Salary:       salary,
		ContractType: contractType(o),
		Experience:   experience(o),
		Remote:       fieldmap.DetectRemote(o.Intitule, o.Description),
		PublishedAt:  publishedAt,
		URL:          link,
		Source:       domain.SourceFranceTravail,
		Tags:         tags,
		CompanyLogo:  o.Entreprise.Logo,
	}
}

func contractType(o francetravail.Offre) domain.ContractType {
	if o.Alternance {
		return domain.ContractAlternance
	}
	return fieldmap.ContractType(o.TypeContrat, contractSynonyms)
}

func experience(o francetravail.Offre) domain.ExperienceLevel {
	if strings.EqualFold(o.ExperienceExige, "D") {
		return domain.ExperienceJunior
	}
	return fieldmap.ExperienceFromText(o.ExperienceLibelle, o.Description)
}

var _ jobdomain.Provider = (*Provider)(nil)
