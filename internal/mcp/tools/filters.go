package tools

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/offerscout/internal/domain"
)

// FiltersInput is the wire form of a search request
type FiltersInput struct {
	Query               string   `json:"query,omitempty" jsonschema:"Free-text keywords"`
	Location            string   `json:"location,omitempty" jsonschema:"City, department or country"`
	ContractTypes       []string `json:"contract_types,omitempty" jsonschema:"Any of CDI, CDD, Stage, Freelance, Alternance, Temps partiel"`
	ExperienceLevels    []string `json:"experience_levels,omitempty" jsonschema:"Any of Débutant, Junior, Confirmé, Senior, Expert"`
	RemoteOnly          bool     `json:"remote_only,omitempty" jsonschema:"Only remote-friendly offers"`
	SalaryMin           float64  `json:"salary_min,omitempty" jsonschema:"Minimum yearly salary"`
	SalaryMax           float64  `json:"salary_max,omitempty" jsonschema:"Maximum yearly salary"`
	PublishedWithinDays int      `json:"published_within_days,omitempty" jsonschema:"Only offers published in the last N days"`
	Sources             []string `json:"sources,omitempty" jsonschema:"Restrict to adzuna, jsearch or france_travail"`
}

var (
	contractTypes = []domain.ContractType{
		domain.ContractCDI, domain.ContractCDD, domain.ContractStage,
		domain.ContractFreelance, domain.ContractAlternance, domain.ContractPartTime,
	}
	experienceLevels = []domain.ExperienceLevel{
		domain.ExperienceBeginner, domain.ExperienceJunior, domain.ExperienceConfirmed,
		domain.ExperienceSenior, domain.ExperienceExpert,
	}
	sources = []domain.Source{domain.SourceAdzuna, domain.SourceJSearch, domain.SourceFranceTravail}
)

// Filters validates the input against the canonical vocabularies
func (in FiltersInput) Filters() (domain.SearchFilters, error) {
	out := domain.SearchFilters{
		Query:               strings.TrimSpace(in.Query),
		Location:            strings.TrimSpace(in.Location),
		RemoteOnly:          in.RemoteOnly,
		SalaryMin:           in.SalaryMin,
		SalaryMax:           in.SalaryMax,
		PublishedWithinDays: in.PublishedWithinDays,
	}

	if in.SalaryMin < 0 || in.SalaryMax < 0 {
		return domain.SearchFilters{}, fmt.Errorf("salary bounds must be positive")
	}
	if in.SalaryMax > 0 && in.SalaryMin > in.SalaryMax {
		return domain.SearchFilters{}, fmt.Errorf("salary_min %.0f is above salary_max %.0f", in.SalaryMin, in.SalaryMax)
	}
	if in.PublishedWithinDays < 0 {
		return domain.SearchFilters{}, fmt.Errorf("published_within_days must be positive")
	}

	var err error
	if out.ContractTypes, err = parseAll(in.ContractTypes, contractTypes, "contract type"); err != nil {
		return domain.SearchFilters{}, err
	}
	if out.ExperienceLevels, err = parseAll(in.ExperienceLevels, experienceLevels, "experience level"); err != nil {
		return domain.SearchFilters{}, err
	}
	if out.Sources, err = parseAll(in.Sources, sources, "source"); err != nil {
		return domain.SearchFilters{}, err
	}
	return out, nil
}

// parseAll matches each raw value case-insensitively against known, keeping
// input order
func parseAll[T ~string](raw []string, known []T, what string) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, ok := lookup(strings.TrimSpace(r), known)
		if !ok {
			return nil, fmt.Errorf("unknown %s %q", what, r)
		}
		out = append(out, v)
	}
	return out, nil
}

func lookup[T ~string](raw string, known []T) (T, bool) {
	for _, k := range known {
		if strings.EqualFold(raw, string(k)) {
			return k, true
		}
	}
	var zero T
	return zero, false
}

func describe(f domain.SearchFilters) string {
	parts := make([]string, 0, 3)
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Query))
	}
	if f.Location != "" {
		parts = append(parts, "in "+f.Location)
	}
	if len(f.Sources) > 0 {
		names := make([]string, len(f.Sources))
		for i, s := range f.Sources {
			names[i] = string(s)
		}
		parts = append(parts, "from "+strings.Join(names, ","))
	}
	if len(parts) == 0 {
		return "all offers"
	}
	return strings.Join(parts, " ")
}
