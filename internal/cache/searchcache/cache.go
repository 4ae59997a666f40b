package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

const (
	// DefaultTTL is how long a saved search stays live
	DefaultTTL = 24 * time.Hour
	// DefaultCapacity is how many searches the history keeps
	DefaultCapacity = 10
)

// ErrNotFound is returned by a Store for a missing key
var ErrNotFound = errors.New("searchcache: key not found")

// Store is a durable string-keyed byte store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

type entry struct {
	Filters domain.SearchFilters `json:"filters"`
	Result  domain.SearchResult  `json:"result"`
	SavedAt time.Time            `json:"timestamp"`
	// Seq orders entries saved within the same instant
	Seq uint64 `json:"seq"`
}

// Cache is the persistent search history. Entries are keyed by filter
// identity, expire lazily after the TTL and are evicted oldest first once
// the capacity is exceeded.
type Cache struct {
	store    Store
	logger   *logging.Logger
	ttl      time.Duration
	capacity int
	now      func() time.Time

	// serializes save+evict within this process
	mu sync.Mutex
}

// Option configures Cache
type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Cache over store
func New(store Store, logger *logging.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Cache{
		store:    store,
		logger:   logger.Named("searchcache"),
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeyFor returns the store key of filters
func KeyFor(filters domain.SearchFilters) string {
	sum := sha256.Sum256([]byte(filters.Key()))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) expired(e entry) bool {
	return c.now().Sub(e.SavedAt) > c.ttl
}

// Get returns the live result saved for filters
func (c *Cache) Get(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, bool) {
	raw, err := c.store.Get(ctx, KeyFor(filters))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("search cache read failed", "err", err)
		}
		return domain.SearchResult{}, false
	}

	e, ok := c.decode(raw)
	if !ok || !e.Filters.Equal(filters) || c.expired(e) {
		return domain.SearchResult{}, false
	}
	return e.Result, true
}

// Save records result for filters as the most recent search, replacing any
// entry with equal filters and evicting beyond capacity.
func (c *Cache) Save(ctx context.Context, filters domain.SearchFilters, result domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, entries, corrupt := c.load(ctx)
	var seq uint64
	for _, e := range entries {
		seq = max(seq, e.Seq)
	}

	key := KeyFor(filters)
	raw, err := json.Marshal(entry{Filters: filters, Result: result, SavedAt: c.now(), Seq: seq + 1})
	if err != nil {
		c.logger.Warn("failed to encode search cache entry", "err", err)
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		c.logger.Warn("search cache write failed", "err", err)
		return
	}

	evict := make([]string, 0, len(corrupt))
	for _, k := range corrupt {
		if k != key {
			evict = append(evict, k)
		}
	}
	kept := 1
	for _, k := range keys {
		if k == key {
			continue
		}
		if kept < c.capacity {
			kept++
			continue
		}
		evict = append(evict, k)
	}
	for _, k := range evict {
		if err := c.store.Delete(ctx, k); err != nil {
			c.logger.Warn("search cache eviction failed", "err", err)
		}
	}
}

// Delete removes the entry for filters
func (c *Cache) Delete(ctx context.Context, filters domain.SearchFilters) {
	if err := c.store.Delete(ctx, KeyFor(filters)); err != nil {
		c.logger.Warn("search cache delete failed", "err", err)
	}
}

// Recent returns saved filters, most recent first, expired ones included.
// limit <= 0 returns every entry.
func (c *Cache) Recent(ctx context.Context, limit int) []domain.SearchFilters {
	_, entries, _ := c.load(ctx)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]domain.SearchFilters, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Filters)
	}
	return out
}

// Clear drops the whole history
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("search cache clear failed", "err", err)
	}
}

func (c *Cache) Stats(ctx context.Context) domain.CacheStats {
	_, entries, _ := c.load(ctx)

	stats := domain.CacheStats{Total: len(entries)}
	for _, e := range entries {
		if c.expired(e) {
			stats.Expired++
		} else {
			stats.Recent++
		}
	}
	return stats
}

// load reads every decodable entry, most recent first, and returns the keys
// of unreadable content separately. Unreadable content is treated as absent.
func (c *Cache) load(ctx context.Context) (keys []string, entries []entry, corrupt []string) {
	all, err := c.store.List(ctx)
	if err != nil {
		c.logger.Warn("search cache list failed", "err", err)
		return nil, nil, nil
	}

	keys = make([]string, 0, len(all))
	byKey := make(map[string]entry, len(all))
	for k, raw := range all {
		e, ok := c.decode(raw)
		if !ok {
			corrupt = append(corrupt, k)
			continue
		}
		keys = append(keys, k)
		byKey[k] = e
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := byKey[keys[i]], byKey[keys[j]]
		if !a.SavedAt.Equal(b.SavedAt) {
			return a.SavedAt.After(b.SavedAt)
		}
		if a.Seq != b.Seq {
			return a.Seq > b.Seq
		}
		return keys[i] < keys[j]
	})

	entries = make([]entry, len(keys))
	for i, k := range keys {
		entries[i] = byKey[k]
	}
	return keys, entries, corrupt
}

func (c *Cache) decode(raw []byte) (entry, bool) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Warn("ignoring corrupt search cache entry", "err", err)
		return entry{}, false
	}
	return e, true
}
