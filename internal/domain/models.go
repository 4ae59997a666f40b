package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// PageSize is the number of offers returned per aggregated page
const PageSize = 20

// ContractType is the canonical employment contract vocabulary
type ContractType string

const (
	ContractCDI        ContractType = "CDI"
	ContractCDD        ContractType = "CDD"
	ContractStage      ContractType = "Stage"
	ContractFreelance  ContractType = "Freelance"
	ContractAlternance ContractType = "Alternance"
	ContractPartTime   ContractType = "Temps partiel"
)

// ExperienceLevel is the canonical seniority vocabulary
type ExperienceLevel string

const (
	ExperienceBeginner  ExperienceLevel = "Débutant"
	ExperienceJunior    ExperienceLevel = "Junior"
	ExperienceConfirmed ExperienceLevel = "Confirmé"
	ExperienceSenior    ExperienceLevel = "Senior"
	ExperienceExpert    ExperienceLevel = "Expert"
)

// SalaryPeriod is the unit a salary range applies to
type SalaryPeriod string

const (
	PeriodHour  SalaryPeriod = "hour"
	PeriodMonth SalaryPeriod = "month"
	PeriodYear  SalaryPeriod = "year"
)

// Source identifies the provider an offer came from
type Source string

const (
	SourceAdzuna        Source = "adzuna"
	SourceJSearch       Source = "jsearch"
	SourceFranceTravail Source = "france_travail"
)

// Salary is an optional pay range attached to an offer
type Salary struct {
	Min      float64      `json:"min,omitempty"`
	Max      float64      `json:"max,omitempty"`
	Currency string       `json:"currency"`
	Period   SalaryPeriod `json:"period"`
}

// JobOffer is the canonical record every provider is normalized into.
// ID is provider-scoped and not unique across sources.
type JobOffer struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Company          string          `json:"company"`
	Location         string          `json:"location"`
	Description      string          `json:"description"`
	Requirements     []string        `json:"requirements"`
	Salary           *Salary         `json:"salary,omitempty"`
	ContractType     ContractType    `json:"contractType"`
	Experience       ExperienceLevel `json:"experience"`
	Remote           bool            `json:"remote"`
	PublishedAt      time.Time       `json:"publishedAt"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	URL              string          `json:"url"`
	Source           Source          `json:"source"`
	Tags             []string        `json:"tags"`
	CompanyLogo      string          `json:"companyLogo,omitempty"`
	ApplicationCount *int            `json:"applicationCount,omitempty"`
}

// SearchFilters is the canonical search request. Every field is optional.
type SearchFilters struct {
	Query               string            `json:"query,omitempty"`
	Location            string            `json:"location,omitempty"`
	ContractTypes       []ContractType    `json:"contractTypes,omitempty"`
	ExperienceLevels    []ExperienceLevel `json:"experienceLevels,omitempty"`
	RemoteOnly          bool              `json:"remoteOnly,omitempty"`
	SalaryMin           float64           `json:"salaryMin,omitempty"`
	SalaryMax           float64           `json:"salaryMax,omitempty"`
	PublishedWithinDays int               `json:"publishedWithinDays,omitempty"`
	Sources             []Source          `json:"sources,omitempty"`
}

// Key returns the JSON identity of the filter set. Empty and nil lists
// serialize identically, list order is significant.
func (f SearchFilters) Key() string {
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(b)
}

// Equal reports whether both filter sets match field by field
func (f SearchFilters) Equal(other SearchFilters) bool {
	a, errA := json.Marshal(f)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// WantsSource reports whether the filters allow the given provider.
// An empty source list allows every provider.
func (f SearchFilters) WantsSource(s Source) bool {
	if len(f.Sources) == 0 {
		return true
	}
	for _, want := range f.Sources {
		if want == s {
			return true
		}
	}
	return false
}

// SearchResult is one page of offers plus paging metadata
type SearchResult struct {
	Offers      []JobOffer `json:"offers"`
	TotalCount  int        `json:"totalCount"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	HasMore     bool       `json:"hasMore"`
}

// CacheStats summarizes the persistent search history
type CacheStats struct {
	Total   int `json:"total"`
	Recent  int `json:"recent"`
	Expired int `json:"expired"`
}

// TotalPages returns the page count for total results at PageSize
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
