package main

import (
	"bytes"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/offerscout/internal/domain"
)

func TestRenderOffers(t *testing.T) {
	var buf bytes.Buffer
	renderOffers(&buf, domain.SearchResult{
		Offers: []domain.JobOffer{{
			Title:        "Go Developer",
			Company:      "Acme",
			Location:     "Lyon",
			ContractType: domain.ContractCDI,
			Salary:       &domain.Salary{Min: 45000, Max: 55000, Currency: "EUR", Period: domain.PeriodYear},
			PublishedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			Source:       domain.SourceAdzuna,
		}},
		TotalCount:  21,
		CurrentPage: 1,
		TotalPages:  2,
	})

	out := buf.String()
	assert.Contains(t, out, "Go Developer")
	assert.Contains(t, out, "45000-55000 EUR/year")
	assert.Contains(t, out, "2025-05-01")
	assert.Contains(t, out, "page 1/2, 21 offer(s) in total")
}

func TestRenderOffers_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderOffers(&buf, domain.SearchResult{})
	assert.Equal(t, "No offers found.\n", buf.String())
}

func TestRenderSearchesAndStats(t *testing.T) {
	var buf bytes.Buffer
	renderSearches(&buf, []domain.SearchFilters{{
		Query:         "go",
		ContractTypes: []domain.ContractType{domain.ContractCDI, domain.ContractCDD},
		Sources:       []domain.Source{domain.SourceJSearch},
	}})
	assert.Contains(t, buf.String(), "CDI,CDD")
	assert.Contains(t, buf.String(), "jsearch")

	buf.Reset()
	renderStats(&buf, domain.CacheStats{Total: 4, Recent: 3, Expired: 1})
	assert.Contains(t, buf.String(), "Expired")
}

func TestDecode(t *testing.T) {
	res := &sdkmcp.CallToolResult{StructuredContent: map[string]any{"total": 2.0, "recent": 1.0, "expired": 1.0}}

	stats, err := decode[domain.CacheStats](res)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheStats{Total: 2, Recent: 1, Expired: 1}, stats)

	_, err = decode[domain.CacheStats](&sdkmcp.CallToolResult{})
	assert.Error(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCommand().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"search", "cv", "recent", "stats", "invalidate", "clear"} {
		assert.True(t, names[want], want)
	}
}
