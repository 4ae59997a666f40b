package searchcache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/offerscout/internal/cache/searchcache"
	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/storage/memory"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newCache(t *testing.T) (*searchcache.Cache, *memory.Store, *clock) {
	t.Helper()
	store := memory.NewStore()
	clk := &clock{t: time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)}
	return searchcache.New(store, nil, searchcache.WithClock(clk.now)), store, clk
}

func TestCache_GetUsesValueEquality(t *testing.T) {
	c, _, _ := newCache(t)
	ctx := context.Background()

	saved := domain.SearchFilters{
		Query:         "go",
		Location:      "Lyon",
		ContractTypes: []domain.ContractType{domain.ContractCDI},
	}
	c.Save(ctx, saved, domain.SearchResult{TotalCount: 4, CurrentPage: 1})

	lookup := domain.SearchFilters{
		Query:         "go",
		Location:      "Lyon",
		ContractTypes: []domain.ContractType{domain.ContractCDI},
	}
	got, ok := c.Get(ctx, lookup)
	require.True(t, ok)
	assert.Equal(t, 4, got.TotalCount)

	_, ok = c.Get(ctx, domain.SearchFilters{Query: "go", Location: "Lyon"})
	assert.False(t, ok)
}

func TestCache_EmptyListEqualsAbsent(t *testing.T) {
	c, _, _ := newCache(t)
	ctx := context.Background()

	c.Save(ctx, domain.SearchFilters{Query: "go", Sources: []domain.Source{}}, domain.SearchResult{TotalCount: 1})

	_, ok := c.Get(ctx, domain.SearchFilters{Query: "go"})
	assert.True(t, ok)
}

func TestCache_TTLBoundary(t *testing.T) {
	c, _, clk := newCache(t)
	ctx := context.Background()
	filters := domain.SearchFilters{Query: "rust"}

	c.Save(ctx, filters, domain.SearchResult{TotalCount: 1})

	clk.advance(searchcache.DefaultTTL - time.Millisecond)
	_, ok := c.Get(ctx, filters)
	assert.True(t, ok)

	clk.advance(2 * time.Millisecond)
	_, ok = c.Get(ctx, filters)
	assert.False(t, ok)

	stats := c.Stats(ctx)
	assert.Equal(t, domain.CacheStats{Total: 1, Recent: 0, Expired: 1}, stats)
}

func TestCache_BoundedHistory(t *testing.T) {
	c, _, clk := newCache(t)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		c.Save(ctx, domain.SearchFilters{Query: fmt.Sprintf("q%d", i)}, domain.SearchResult{})
		clk.advance(time.Second)
	}

	recent := c.Recent(ctx, 10)
	require.Len(t, recent, 10)
	assert.Equal(t, "q10", recent[0].Query)
	assert.Equal(t, "q1", recent[9].Query)

	_, ok := c.Get(ctx, domain.SearchFilters{Query: "q0"})
	assert.False(t, ok)
	assert.Equal(t, 10, c.Stats(ctx).Total)
}

func TestCache_SaveMovesEqualFiltersToFront(t *testing.T) {
	c, _, clk := newCache(t)
	ctx := context.Background()

	a := domain.SearchFilters{Query: "a"}
	b := domain.SearchFilters{Query: "b"}
	c.Save(ctx, a, domain.SearchResult{TotalCount: 1})
	clk.advance(time.Second)
	c.Save(ctx, b, domain.SearchResult{})
	clk.advance(time.Second)
	c.Save(ctx, a, domain.SearchResult{TotalCount: 2})

	recent := c.Recent(ctx, 0)
	require.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].Query)
	assert.Equal(t, "b", recent[1].Query)

	got, ok := c.Get(ctx, a)
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalCount)
}

func TestCache_RecentIncludesExpired(t *testing.T) {
	c, _, clk := newCache(t)
	ctx := context.Background()

	c.Save(ctx, domain.SearchFilters{Query: "old"}, domain.SearchResult{})
	clk.advance(48 * time.Hour)

	recent := c.Recent(ctx, 5)
	require.Len(t, recent, 1)
	assert.Equal(t, "old", recent[0].Query)
}

func TestCache_CorruptEntryIsAbsent(t *testing.T) {
	c, store, _ := newCache(t)
	ctx := context.Background()
	filters := domain.SearchFilters{Query: "broken"}

	require.NoError(t, store.Set(ctx, searchcache.KeyFor(filters), []byte("{not json")))

	_, ok := c.Get(ctx, filters)
	assert.False(t, ok)
	assert.Empty(t, c.Recent(ctx, 10))
	assert.Equal(t, domain.CacheStats{}, c.Stats(ctx))

	c.Save(ctx, filters, domain.SearchResult{TotalCount: 9})
	got, ok := c.Get(ctx, filters)
	require.True(t, ok)
	assert.Equal(t, 9, got.TotalCount)
}

func TestCache_SaveEvictsCorruptEntries(t *testing.T) {
	c, store, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "garbage", []byte("{not json")))
	c.Save(ctx, domain.SearchFilters{Query: "go"}, domain.SearchResult{})

	_, err := store.Get(ctx, "garbage")
	assert.ErrorIs(t, err, searchcache.ErrNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCache_SameInstantKeepsSaveOrder(t *testing.T) {
	c, _, _ := newCache(t)
	ctx := context.Background()

	queries := []string{"first", "second", "third", "fourth"}
	for _, q := range queries {
		c.Save(ctx, domain.SearchFilters{Query: q}, domain.SearchResult{})
	}

	var got []string
	for _, f := range c.Recent(ctx, 0) {
		got = append(got, f.Query)
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, got)
}

func TestCache_SameInstantEvictsOldest(t *testing.T) {
	store := memory.NewStore()
	frozen := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	c := searchcache.New(store, nil,
		searchcache.WithCapacity(2),
		searchcache.WithClock(func() time.Time { return frozen }),
	)
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c"} {
		c.Save(ctx, domain.SearchFilters{Query: q}, domain.SearchResult{})
	}

	_, ok := c.Get(ctx, domain.SearchFilters{Query: "a"})
	assert.False(t, ok)
	_, ok = c.Get(ctx, domain.SearchFilters{Query: "c"})
	assert.True(t, ok)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c, _, _ := newCache(t)
	ctx := context.Background()
	a := domain.SearchFilters{Query: "a"}
	b := domain.SearchFilters{Query: "b"}

	c.Save(ctx, a, domain.SearchResult{})
	c.Save(ctx, b, domain.SearchResult{})

	c.Delete(ctx, a)
	_, ok := c.Get(ctx, a)
	assert.False(t, ok)
	_, ok = c.Get(ctx, b)
	assert.True(t, ok)

	c.Clear(ctx)
	assert.Equal(t, 0, c.Stats(ctx).Total)
}

func TestCache_RoundTripsOffers(t *testing.T) {
	c, _, _ := newCache(t)
	ctx := context.Background()
	published := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	filters := domain.SearchFilters{Query: "go"}

	c.Save(ctx, filters, domain.SearchResult{
		Offers: []domain.JobOffer{{
			ID:          "adzuna-1",
			Title:       "Go Developer",
			Company:     "Acme",
			Salary:      &domain.Salary{Min: 45000, Max: 55000, Currency: "EUR", Period: domain.PeriodYear},
			PublishedAt: published,
			Source:      domain.SourceAdzuna,
		}},
		TotalCount: 1,
	})

	got, ok := c.Get(ctx, filters)
	require.True(t, ok)
	require.Len(t, got.Offers, 1)
	assert.Equal(t, "Go Developer", got.Offers[0].Title)
	assert.True(t, published.Equal(got.Offers[0].PublishedAt))
	require.NotNil(t, got.Offers[0].Salary)
	assert.Equal(t, 55000.0, got.Offers[0].Salary.Max)
}
