package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/offerscout/internal/cache/searchcache"
	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/storage/memory"
)

type fakeRefresher struct {
	recent    []domain.SearchFilters
	limit     int
	refreshed []string
	fail      map[string]bool
}

func (f *fakeRefresher) RecentSearches(_ context.Context, limit int) []domain.SearchFilters {
	f.limit = limit
	return f.recent
}

func (f *fakeRefresher) Refresh(_ context.Context, filters domain.SearchFilters) (domain.SearchResult, error) {
	f.refreshed = append(f.refreshed, filters.Query)
	if f.fail[filters.Query] {
		return domain.SearchResult{}, errors.New("boom")
	}
	return domain.SearchResult{}, nil
}

func TestRunOnce_RefreshesEveryRecentSearch(t *testing.T) {
	f := &fakeRefresher{
		recent: []domain.SearchFilters{{Query: "a"}, {Query: "b"}, {Query: "c"}},
		fail:   map[string]bool{"b": true},
	}
	s := New(f, "@every 1h", 3, nil)

	s.RunOnce(context.Background())

	assert.Equal(t, 3, f.limit)
	assert.Equal(t, []string{"c", "b", "a"}, f.refreshed)
}

func TestRunOnce_KeepsHistoryOrder(t *testing.T) {
	store := memory.NewStore()
	clk := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	cache := searchcache.New(store, nil, searchcache.WithClock(func() time.Time { return clk }))

	ctx := context.Background()
	for _, q := range []string{"oldest", "middle", "newest"} {
		cache.Save(ctx, domain.SearchFilters{Query: q}, domain.SearchResult{})
		clk = clk.Add(time.Second)
	}

	r := &cacheRefresher{cache: cache, tick: func() { clk = clk.Add(time.Second) }}
	New(r, "@every 1h", 10, nil).RunOnce(ctx)

	var order []string
	for _, f := range cache.Recent(ctx, 0) {
		order = append(order, f.Query)
	}
	assert.Equal(t, []string{"newest", "middle", "oldest"}, order)
}

// cacheRefresher re-saves each refreshed search the way the aggregator does
type cacheRefresher struct {
	cache *searchcache.Cache
	tick  func()
}

func (r *cacheRefresher) RecentSearches(ctx context.Context, limit int) []domain.SearchFilters {
	return r.cache.Recent(ctx, limit)
}

func (r *cacheRefresher) Refresh(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, error) {
	r.cache.Save(ctx, filters, domain.SearchResult{})
	r.tick()
	return domain.SearchResult{}, nil
}

func TestRunOnce_StopsOnCancel(t *testing.T) {
	f := &fakeRefresher{recent: []domain.SearchFilters{{Query: "a"}}}
	s := New(f, "@every 1h", 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	assert.Empty(t, f.refreshed)
	assert.Equal(t, DefaultBatch, f.limit)
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := New(&fakeRefresher{}, "every now and then", 1, nil)
	require.Error(t, s.Start())
}

func TestShutdown(t *testing.T) {
	s := New(&fakeRefresher{}, "@every 1h", 1, nil)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}
