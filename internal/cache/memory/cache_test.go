package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_GetSet(t *testing.T) {
	c := New[string]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	c.Set("k", "v2")
	got, _ = c.Get("k")
	assert.Equal(t, "v2", got)
}

func TestCache_TTLBoundary(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New[int](WithTTL(DefaultTTL), WithClock(clk.Now))

	c.Set("k", 42)

	clk.Advance(DefaultTTL - time.Millisecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	clk.Advance(2 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// expiry is lazy: the entry is still physically present
	assert.Equal(t, 1, c.Len())
}

func TestCache_Clear(t *testing.T) {
	c := New[int](WithShards(3))
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, 10, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Set(key, i)
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}
