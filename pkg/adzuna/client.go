package adzuna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.adzuna.com"
	defaultCountry  = "fr"
	defaultPageSize = 20
)

// ErrMissingCredentials is returned by NewClient without app id or key
var ErrMissingCredentials = errors.New("adzuna: app_id and app_key are required")

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, ErrMissingCredentials
	}

	country := strings.ToLower(cfg.Country)
	if country == "" {
		country = defaultCountry
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		country:    country,
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
		limiter:    limiter,
	}, nil
}

// Country returns the configured market code, e.g. "fr"
func (c *Client) Country() string {
	return c.country
}

// Values encodes params without credentials. The result is stable and safe
// to use as a cache key.
func (c *Client) Values(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("results_per_page", strconv.Itoa(c.pageSize))
	values.Set("sort_by", "date")

	if params.What != "" {
		values.Set("what", params.What)
	}
	if params.Where != "" {
		values.Set("where", params.Where)
	}
	if params.MaxDaysOld > 0 {
		values.Set("max_days_old", strconv.Itoa(params.MaxDaysOld))
	}
	if params.SalaryMin > 0 {
		values.Set("salary_min", strconv.FormatFloat(params.SalaryMin, 'f', -1, 64))
	}
	if params.SalaryMax > 0 {
		values.Set("salary_max", strconv.FormatFloat(params.SalaryMax, 'f', -1, 64))
	}
	if params.FullTime {
		values.Set("full_time", "1")
	}
	if params.PartTime {
		values.Set("part_time", "1")
	}
	if params.Permanent {
		values.Set("permanent", "1")
	}
	if params.Contract {
		values.Set("contract", "1")
	}
	return values
}

// Search fetches one page of ads. A single request is made; failures are not
// retried.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("adzuna: rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("adzuna: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("adzuna: decode response: %w", err)
	}

	return &payload, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	u.Path = path.Join(u.Path, "v1", "api", "jobs", c.country, "search", strconv.Itoa(page))

	values := c.Values(params)
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)

	u.RawQuery = values.Encode()
	return u.String(), nil
}
