package client

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 10 * time.Minute

	defaultCacheSize = 256
)

type entry struct {
	key         QueryKey
	data        interface{}
	updatedAt   time.Time
	invalidated bool
}

// QueryCache holds query results by key. Data younger than the stale time
// and not invalidated is served without a fetch. Entries not written for the
// GC time are evicted.
type QueryCache struct {
	mu        sync.Mutex
	entries   *expirable.LRU[string, *entry]
	gens      map[string]uint64
	staleTime time.Duration
	now       func() time.Time
}

type CacheOption func(*QueryCache)

func WithStaleTime(d time.Duration) CacheOption {
	return func(c *QueryCache) { c.staleTime = d }
}

func WithClock(now func() time.Time) CacheOption {
	return func(c *QueryCache) { c.now = now }
}

func NewQueryCache(gcTime time.Duration, opts ...CacheOption) *QueryCache {
	c := &QueryCache{
		entries:   expirable.NewLRU[string, *entry](defaultCacheSize, nil, gcTime),
		gens:      map[string]uint64{},
		staleTime: DefaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the data stored under key.
func (c *QueryCache) Get(key QueryKey) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key.String())
	if !ok {
		return nil, false
	}

	return e.data, true
}

// Set stores data under key as fresh.
func (c *QueryCache) Set(key QueryKey, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(key, data)
}

func (c *QueryCache) set(key QueryKey, data interface{}) {
	c.entries.Add(key.String(), &entry{
		key:       append(QueryKey(nil), key...),
		data:      data,
		updatedAt: c.now(),
	})
}

// Invalidate marks every entry under prefix stale; the next Fetch of those
// keys goes to the server. Cached data stays readable.
func (c *QueryCache) Invalidate(prefix QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range c.entries.Keys() {
		if e, ok := c.entries.Peek(k); ok && e.key.HasPrefix(prefix) {
			e.invalidated = true
		}
	}
}

// IsStale reports whether key has no data or its data needs a refetch.
func (c *QueryCache) IsStale(key QueryKey) bool {
	_, ok := c.fresh(key)

	return !ok
}

// Cancel makes fetches of keys under prefix that are already in flight
// drop their results instead of writing them to the cache.
func (c *QueryCache) Cancel(prefix QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[prefix.String()]++
}

// fresh returns cached data that can be served without a fetch.
func (c *QueryCache) fresh(key QueryKey) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key.String())
	if !ok || e.invalidated || c.now().Sub(e.updatedAt) >= c.staleTime {
		return nil, false
	}

	return e.data, true
}

// generation sums the cancel counters of key and all its prefixes, so a
// Cancel on any ancestor changes it.
func (c *QueryCache) generation(key QueryKey) uint64 {
	var g uint64
	for i := 0; i <= len(key); i++ {
		g += c.gens[key[:i].String()]
	}

	return g
}

func (c *QueryCache) currentGeneration(key QueryKey) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation(key)
}

// setIfCurrent stores data unless key was cancelled since gen was taken.
func (c *QueryCache) setIfCurrent(key QueryKey, data interface{}, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation(key) != gen {
		return false
	}
	c.set(key, data)

	return true
}

// Fetch returns fresh cached data for key, or calls fn and caches its
// result. A result whose key was cancelled while fn ran is returned to the
// caller but not cached.
func Fetch[T any](ctx context.Context, c *QueryCache, key QueryKey, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.fresh(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	gen := c.currentGeneration(key)
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.setIfCurrent(key, v, gen)

	return v, nil
}

// GetData is a typed Get.
func GetData[T any](c *QueryCache, key QueryKey) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)

	return t, ok
}
