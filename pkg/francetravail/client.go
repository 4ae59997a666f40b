package francetravail

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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	DefaultTokenURL = "https://entreprise.francetravail.fr/connexion/oauth2/access_token"
	DefaultBaseURL  = "https://api.francetravail.io"

	searchPath = "/partenaire/offresdemploi/v2/offres/search"
)

// DefaultScopes grant read access to job offers
var DefaultScopes = []string{"api_offresdemploiv2", "o2dsoffre"}

// ErrMissingCredentials is returned by NewClient without client id or secret
var ErrMissingCredentials = errors.New("francetravail: client id and secret are required")

// NewClient builds a client that obtains and refreshes its bearer token with
// the OAuth2 client-credentials grant.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	cc := &clientcredentials.Config{
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
		TokenURL:       tokenURL,
		Scopes:         scopes,
		EndpointParams: url.Values{"realm": {"/partenaire"}},
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	// the token source and the API calls share the caller's transport
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: cc.Client(ctx),
		limiter:    limiter,
	}, nil
}

// Values encodes params without credentials
func (c *Client) Values(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("range", fmt.Sprintf("%d-%d", params.Start, params.End))
	values.Set("sort", "1")

	if params.MotsCles != "" {
		values.Set("motsCles", params.MotsCles)
	}
	if params.PublieeDepuis > 0 {
		values.Set("publieeDepuis", strconv.Itoa(params.PublieeDepuis))
	}
	if len(params.TypeContrat) > 0 {
		values.Set("typeContrat", strings.Join(params.TypeContrat, ","))
	}
	if len(params.Experience) > 0 {
		values.Set("experience", strings.Join(params.Experience, ","))
	}
	if params.SalaireMin > 0 {
		values.Set("salaireMin", strconv.FormatFloat(params.SalaireMin, 'f', 0, 64))
		values.Set("periodeSalaire", "A")
	}
	if params.Alternance {
		values.Set("natureContrat", "E2")
	}
	return values
}

// Search fetches one range of offers with a single request. 204 No Content is
// an empty result, not an error.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("francetravail: client is nil")
	}

	u, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, fmt.Errorf("francetravail: parse base url: %w", err)
	}
	u.RawQuery = c.Values(params).Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("francetravail: rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("francetravail: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("francetravail: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return &SearchResponse{Resultats: []Offre{}}, nil
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("francetravail: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("francetravail: decode response: %w", err)
	}
	payload.Total = parseContentRange(resp.Header.Get("Content-Range"), len(payload.Resultats))

	return &payload, nil
}

// parseContentRange reads the total from "offres 0-19/1234"
func parseContentRange(header string, fallback int) int {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return fallback
	}
	total, err := strconv.Atoi(strings.TrimSpace(header[idx+1:]))
	if err != nil {
		return fallback
	}
	return total
}
