package jsearch

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Config defines JSearch (RapidAPI) client settings
type Config struct {
	APIKey     string
	Host       string
	BaseURL    string
	HTTPClient *http.Client
	// RatePerSecond caps outgoing requests; zero means unlimited
	RatePerSecond float64
}

// Client queries the JSearch API through RapidAPI
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SearchParams describe one search call. Zero values are omitted.
type SearchParams struct {
	Query           string
	Page            int
	DatePosted      string
	RemoteOnly      bool
	EmploymentTypes []string
	JobRequirements []string
}

// SearchResponse is the raw search payload
type SearchResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Data      []Job  `json:"data"`
}

// Job is one raw JSearch posting. Every field may be missing.
type Job struct {
	ID                 string              `json:"job_id"`
	Title              string              `json:"job_title"`
	EmployerName       string              `json:"employer_name"`
	EmployerLogo       string              `json:"employer_logo"`
	Publisher          string              `json:"job_publisher"`
	EmploymentType     string              `json:"job_employment_type"`
	ApplyLink          string              `json:"job_apply_link"`
	Description        string              `json:"job_description"`
	IsRemote           bool                `json:"job_is_remote"`
	PostedAtUTC        string              `json:"job_posted_at_datetime_utc"`
	ExpiresAtUTC       string              `json:"job_offer_expiration_datetime_utc"`
	City               string              `json:"job_city"`
	State              string              `json:"job_state"`
	Country            string              `json:"job_country"`
	MinSalary          *float64            `json:"job_min_salary"`
	MaxSalary          *float64            `json:"job_max_salary"`
	SalaryCurrency     string              `json:"job_salary_currency"`
	SalaryPeriod       string              `json:"job_salary_period"`
	RequiredExperience RequiredExperience  `json:"job_required_experience"`
	RequiredSkills     []string            `json:"job_required_skills"`
	Highlights         map[string][]string `json:"job_highlights"`
}

type RequiredExperience struct {
	NoExperienceRequired bool `json:"no_experience_required"`
	RequiredMonths       *int `json:"required_experience_in_months"`
	ExperienceMentioned  bool `json:"experience_mentioned"`
}
