package jsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	// DefaultHost is the RapidAPI host of JSearch
	DefaultHost = "jsearch.p.rapidapi.com"
)

// ErrMissingAPIKey is returned by NewClient without a RapidAPI key
var ErrMissingAPIKey = errors.New("jsearch: api key is required")

// NewClient instantiates a JSearch client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + host
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		host:       host,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// Values encodes params. Credentials travel in headers, so the result is safe
// to use as a cache key.
func (c *Client) Values(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("num_pages", "1")

	page := params.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))

	if params.Query != "" {
		values.Set("query", params.Query)
	}
	if params.DatePosted != "" {
		values.Set("date_posted", params.DatePosted)
	}
	if params.RemoteOnly {
		values.Set("remote_jobs_only", "true")
	}
	if len(params.EmploymentTypes) > 0 {
		values.Set("employment_types", strings.Join(params.EmploymentTypes, ","))
	}
	if len(params.JobRequirements) > 0 {
		values.Set("job_requirements", strings.Join(params.JobRequirements, ","))
	}
	return values
}

// Search fetches one page of postings with a single request
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("jsearch: client is nil")
	}

	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("jsearch: parse base url: %w", err)
	}
	u.RawQuery = c.Values(params).Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("jsearch: rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jsearch: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jsearch: decode response: %w", err)
	}
	if payload.Status != "" && !strings.EqualFold(payload.Status, "OK") {
		return nil, fmt.Errorf("jsearch: unexpected status %q", payload.Status)
	}

	return &payload, nil
}
