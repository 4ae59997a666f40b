package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/offerscout/internal/cache/memory"
	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/fieldmap"
	jobdomain "github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/pkg/adzuna"
)

const samplePayload = `{
  "count": 45,
  "results": [
    {
      "id": "4242",
      "title": "Développeur Backend Senior",
      "company": {"display_name": "Acme"},
      "location": {"display_name": "Paris, Ile-de-France"},
      "description": "Stack Python, Docker et Kubernetes. Télétravail partiel.",
      "created": "2025-05-01T08:30:00Z",
      "redirect_url": "https://adzuna.example/4242",
      "contract_type": "contract",
      "contract_time": "full_time",
      "category": {"label": "IT Jobs"},
      "salary_min": 50000,
      "salary_max": 60000
    },
    {
      "description": "",
      "created": "not a date"
    }
  ]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := adzuna.NewClient(adzuna.Config{AppID: "id", AppKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	p := NewProvider(client, memory.New[domain.SearchResult]())
	p.now = func() time.Time { return time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC) }
	return p, &calls
}

func TestProvider_NotConfigured(t *testing.T) {
	p := NewProvider(nil, nil)
	assert.False(t, p.Configured())

	_, err := p.Search(context.Background(), domain.SearchFilters{}, 1)
	require.ErrorIs(t, err, jobdomain.ErrNotConfigured)
}

func TestProvider_Transform(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePayload))
	})

	res, err := p.Search(context.Background(), domain.SearchFilters{Query: "backend"}, 1)
	require.NoError(t, err)

	assert.Equal(t, 45, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasMore)
	require.Len(t, res.Offers, 2)

	o := res.Offers[0]
	assert.Equal(t, "4242", o.ID)
	assert.Equal(t, domain.ContractCDD, o.ContractType)
	assert.Equal(t, domain.ExperienceSenior, o.Experience)
	assert.True(t, o.Remote)
	assert.Equal(t, []string{"Python", "Docker", "Kubernetes"}, o.Requirements)
	assert.Equal(t, &domain.Salary{Min: 50000, Max: 60000, Currency: "EUR", Period: domain.PeriodYear}, o.Salary)
	assert.Equal(t, []string{"IT Jobs", "full_time"}, o.Tags)
	assert.Equal(t, domain.SourceAdzuna, o.Source)

	empty := res.Offers[1]
	assert.NotEmpty(t, empty.ID)
	assert.Equal(t, fieldmap.FallbackTitle, empty.Title)
	assert.Equal(t, fieldmap.FallbackCompany, empty.Company)
	assert.Equal(t, fieldmap.FallbackLocation, empty.Location)
	assert.Equal(t, domain.ContractCDI, empty.ContractType)
	assert.Equal(t, domain.ExperienceConfirmed, empty.Experience)
	assert.Nil(t, empty.Salary)
	assert.NotNil(t, empty.Requirements)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), empty.PublishedAt)
}

func TestProvider_ShortTermCache(t *testing.T) {
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePayload))
	})
	filters := domain.SearchFilters{Query: "go", Location: "Lyon"}

	_, err := p.Search(context.Background(), filters, 1)
	require.NoError(t, err)
	_, err = p.Search(context.Background(), filters, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	_, err = p.Search(context.Background(), filters, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestProvider_FailureNotCached(t *testing.T) {
	p, calls := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.Search(context.Background(), domain.SearchFilters{}, 1)
	require.Error(t, err)
	_, err = p.Search(context.Background(), domain.SearchFilters{}, 1)
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestBuildParams(t *testing.T) {
	params := buildParams(domain.SearchFilters{
		Query:               "devops",
		Location:            "Nantes",
		RemoteOnly:          true,
		PublishedWithinDays: 14,
		ContractTypes:       []domain.ContractType{domain.ContractCDI, domain.ContractPartTime},
	}, 2)

	assert.Equal(t, "devops remote", params.What)
	assert.Equal(t, "Nantes", params.Where)
	assert.Equal(t, 14, params.MaxDaysOld)
	assert.True(t, params.Permanent)
	assert.True(t, params.PartTime)
	assert.False(t, params.Contract)
	assert.Equal(t, 2, params.Page)
}
