// Package memory implements the process-local short-term cache used by the
// provider adapters. Entries expire lazily: an entry older than the TTL is
// reported as a miss but stays in its shard until it is overwritten or the
// cache is cleared.
package memory

import (
	"hash/fnv"
	"sync"
	"time"
)

const (
	// DefaultTTL matches the short-term window for provider sub-queries
	DefaultTTL = 10 * time.Minute

	defaultShards = 8
)

type item[V any] struct {
	value     V
	writtenAt time.Time
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]item[V]
}

// Cache is a sharded in-memory map with lazy TTL expiry
type Cache[V any] struct {
	shards []*shard[V]
	ttl    time.Duration
	clock  func() time.Time
}

// Option configures Cache
type Option func(*options)

type options struct {
	ttl    time.Duration
	shards int
	clock  func() time.Time
}

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithShards sets the number of lock shards
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New builds an empty cache
func New[V any](opts ...Option) *Cache[V] {
	o := &options{
		ttl:    DefaultTTL,
		shards: defaultShards,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Cache[V]{
		shards: make([]*shard[V], o.shards),
		ttl:    o.ttl,
		clock:  o.clock,
	}
	for i := range c.shards {
		c.shards[i] = &shard[V]{items: make(map[string]item[V])}
	}
	return c
}

func (c *Cache[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns the value for key unless it is missing or older than the TTL
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	s := c.shardFor(key)
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return zero, false
	}
	if c.clock().Sub(it.writtenAt) > c.ttl {
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, replacing any previous entry
func (c *Cache[V]) Set(key string, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.items[key] = item[V]{value: value, writtenAt: c.clock()}
	s.mu.Unlock()
}

// Clear drops every entry regardless of age
func (c *Cache[V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.items = make(map[string]item[V])
		s.mu.Unlock()
	}
}

// Len counts physically present entries, expired ones included
func (c *Cache[V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}
