package jsearch

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
	"github.com/honeycarbs/offerscout/pkg/jsearch"
)

const samplePayload = `{
  "status": "OK",
  "data": [
    {
      "job_id": "js-1",
      "job_title": "Lead Platform Engineer",
      "employer_name": "Globex",
      "employer_logo": "https://logo.example/globex.png",
      "job_publisher": "LinkedIn",
      "job_employment_type": "FULLTIME",
      "job_apply_link": "https://apply.example/js-1",
      "job_description": "Terraform and AWS at scale.",
      "job_is_remote": true,
      "job_posted_at_datetime_utc": "2025-05-08T10:00:00.000Z",
      "job_offer_expiration_datetime_utc": "2025-06-08T10:00:00.000Z",
      "job_city": "Lyon",
      "job_country": "FR",
      "job_min_salary": 60000,
      "job_max_salary": 75000,
      "job_salary_currency": "EUR",
      "job_salary_period": "YEAR",
      "job_required_experience": {"required_experience_in_months": 0}
    },
    {
      "job_title": "Stagiaire marketing",
      "job_employment_type": "INTERN",
      "job_required_experience": {}
    }
  ]
}`

func newTestProvider(t *testing.T) (*Provider, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(samplePayload))
	}))
	t.Cleanup(srv.Close)

	client, err := jsearch.NewClient(jsearch.Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	p := NewProvider(client, memory.New[domain.SearchResult]())
	p.now = func() time.Time { return time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC) }
	return p, &calls
}

func TestProvider_Transform(t *testing.T) {
	p, _ := newTestProvider(t)

	res, err := p.Search(context.Background(), domain.SearchFilters{Query: "platform"}, 1)
	require.NoError(t, err)
	require.Len(t, res.Offers, 2)
	assert.Equal(t, 2, res.TotalCount)

	o := res.Offers[0]
	assert.Equal(t, "js-1", o.ID)
	assert.Equal(t, "Lyon, FR", o.Location)
	assert.Equal(t, domain.ContractCDI, o.ContractType)
	assert.Equal(t, domain.ExperienceJunior, o.Experience)
	assert.True(t, o.Remote)
	assert.Equal(t, []string{"Terraform", "AWS"}, o.Requirements)
	assert.Equal(t, &domain.Salary{Min: 60000, Max: 75000, Currency: "EUR", Period: domain.PeriodYear}, o.Salary)
	require.NotNil(t, o.ExpiresAt)
	assert.Equal(t, "https://logo.example/globex.png", o.CompanyLogo)
	assert.Equal(t, []string{"LinkedIn", "FULLTIME"}, o.Tags)

	intern := res.Offers[1]
	assert.Equal(t, fieldmap.FallbackCompany, intern.Company)
	assert.Equal(t, fieldmap.FallbackLocation, intern.Location)
	assert.Equal(t, domain.ContractStage, intern.ContractType)
	assert.Equal(t, domain.ExperienceJunior, intern.Experience)
	assert.Nil(t, intern.Salary)
	assert.Nil(t, intern.ExpiresAt)
}

func TestProvider_ShortTermCache(t *testing.T) {
	p, calls := newTestProvider(t)
	filters := domain.SearchFilters{Query: "go"}

	for range 3 {
		_, err := p.Search(context.Background(), filters, 1)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestProvider_NotConfigured(t *testing.T) {
	_, err := NewProvider(nil, nil).Search(context.Background(), domain.SearchFilters{}, 1)
	require.ErrorIs(t, err, jobdomain.ErrNotConfigured)
}

func TestBuildParams(t *testing.T) {
	params := buildParams(domain.SearchFilters{
		Query:               "data engineer",
		Location:            "Paris",
		PublishedWithinDays: 5,
		RemoteOnly:          true,
		ContractTypes:       []domain.ContractType{domain.ContractCDD, domain.ContractFreelance, domain.ContractStage},
		ExperienceLevels:    []domain.ExperienceLevel{domain.ExperienceSenior, domain.ExperienceExpert},
	}, 3)

	assert.Equal(t, "data engineer in Paris", params.Query)
	assert.Equal(t, "week", params.DatePosted)
	assert.True(t, params.RemoteOnly)
	assert.Equal(t, []string{"CONTRACTOR", "INTERN"}, params.EmploymentTypes)
	assert.Equal(t, []string{"more_than_3_years_experience"}, params.JobRequirements)
	assert.Equal(t, 3, params.Page)
}

func TestDatePosted(t *testing.T) {
	assert.Equal(t, "", datePosted(0))
	assert.Equal(t, "today", datePosted(1))
	assert.Equal(t, "3days", datePosted(3))
	assert.Equal(t, "week", datePosted(7))
	assert.Equal(t, "month", datePosted(30))
}
