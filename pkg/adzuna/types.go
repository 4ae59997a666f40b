package adzuna

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	Country    string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
	// RatePerSecond caps outgoing requests; zero means unlimited
	RatePerSecond float64
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	country    string
	baseURL    string
	httpClient *http.Client
	pageSize   int
	limiter    *rate.Limiter
}

// SearchParams describe a job search request. Zero values are omitted.
type SearchParams struct {
	What       string
	Where      string
	MaxDaysOld int
	SalaryMin  float64
	SalaryMax  float64
	FullTime   bool
	PartTime   bool
	Permanent  bool
	Contract   bool
	Page       int
}

// SearchResponse is the raw search payload
type SearchResponse struct {
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	Results []Posting `json:"results"`
}

// Posting is one raw Adzuna ad. Every field may be missing.
type Posting struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Company           CompanySummary  `json:"company"`
	Location          LocationSummary `json:"location"`
	Description       string          `json:"description"`
	Created           string          `json:"created"`
	RedirectURL       string          `json:"redirect_url"`
	ContractType      string          `json:"contract_type"`
	ContractTime      string          `json:"contract_time"`
	Category          Category        `json:"category"`
	SalaryMin         float64         `json:"salary_min"`
	SalaryMax         float64         `json:"salary_max"`
	SalaryIsPredicted string          `json:"salary_is_predicted"`
}

type CompanySummary struct {
	DisplayName string `json:"display_name"`
}

type LocationSummary struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

type Category struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}
